package telegram

import (
	"errors"
	"hash/fnv"
	"io"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionCategory = "cat"
	actionAnswer   = "ans"
	actionNav      = "nav"
)

// Navigation sub-actions.
const (
	navNext           = "next"
	navPrev           = "prev"
	navShuffle        = "shuffle"
	navShuffleAnswers = "shuffle_answers"
	navCategories     = "categories"
	navFinish         = "finish"
)

var errBadCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildCategoryCallback refers to a category by its position in the category list,
// since category names may not fit into the 64 bytes Telegram allows. The name
// tag tells a button drawn before a reload reordered the list.
func buildCategoryCallback(index int, name string) string {
	return callbackData{
		Action: actionCategory,
		Params: []string{strconv.Itoa(index), categoryTag(name)},
	}.encode()
}

// categoryTag is a short FNV-1a hash of a category name.
func categoryTag(name string) string {
	h := fnv.New32a()
	_, _ = io.WriteString(h, name)
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// buildAnswerCallback builds callback data for an answer button. The session
// generation lets the handler ignore buttons of a question that is no longer shown.
func buildAnswerCallback(generation uint64, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.FormatUint(generation, 10),
			strconv.Itoa(option),
		},
	}.encode()
}

func buildNavCallback(sub string) string {
	return callbackData{
		Action: actionNav,
		Params: []string{sub},
	}.encode()
}

func (cd callbackData) category() (index int, tag string, err error) {
	if len(cd.Params) != 2 {
		return 0, "", errBadCallback
	}
	index, err = strconv.Atoi(cd.Params[0])
	if err != nil || index < 0 {
		return 0, "", errBadCallback
	}
	return index, cd.Params[1], nil
}

func (cd callbackData) answer() (generation uint64, option int, err error) {
	if len(cd.Params) != 2 {
		return 0, 0, errBadCallback
	}
	generation, err = strconv.ParseUint(cd.Params[0], 10, 64)
	if err != nil {
		return 0, 0, errBadCallback
	}
	option, err = strconv.Atoi(cd.Params[1])
	if err != nil {
		return 0, 0, errBadCallback
	}
	return generation, option, nil
}

func (cd callbackData) nav() (string, error) {
	if len(cd.Params) != 1 {
		return "", errBadCallback
	}
	return cd.Params[0], nil
}
