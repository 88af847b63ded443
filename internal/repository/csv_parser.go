package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

var (
	ErrTooFewColumns     = errors.New("too few columns")
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	ErrInvalidCorrect    = errors.New("correct answer column must be a number from 1 to 4")
	ErrMissingField      = errors.New("category, question and the first two options are required")
)

// Column layout of a question row.
const (
	colCategory = iota
	colText
	colOptionA
	colOptionB
	colOptionC
	colOptionD
	colCorrect
	colImage
	colExplanation

	minColumns = colCorrect + 1
)

const defaultImagePrefix = "./"

// RowError describes a CSV row that was skipped.
type RowError struct {
	Line int   // 1-based line number in the source text
	Err  error // reason
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseResult holds accepted questions in file order and the rejected rows.
type ParseResult struct {
	Questions []entities.Question
	Rejected  []RowError
}

// ParserOptions tune row normalization.
type ParserOptions struct {
	ImagePrefix   string // prepended to relative image paths, "./" when empty
	StrictCorrect bool   // reject a row with an invalid correct column instead of defaulting to option A
}

// Parser turns question CSV text into questions.
type Parser struct {
	logger *zap.Logger
	opts   ParserOptions
}

// NewParser creates a Parser.
func NewParser(logger *zap.Logger, opts ParserOptions) *Parser {
	if opts.ImagePrefix == "" {
		opts.ImagePrefix = defaultImagePrefix
	}

	return &Parser{logger: logger, opts: opts}
}

// Parse reads question rows from text. The first line is a header and is
// always skipped, as are blank lines and lines starting with "#" or "//".
// A bad row is logged and skipped; it never stops the rest of the file.
func (p *Parser) Parse(text string) ParseResult {
	var res ParseResult

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		if i == 0 {
			continue
		}

		lineNum := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		q, err := p.parseRow(lineNum, line)
		if err != nil {
			p.logger.Warn("skipping csv row",
				zap.Int("line", lineNum),
				zap.Error(err),
			)
			res.Rejected = append(res.Rejected, RowError{Line: lineNum, Err: err})
			continue
		}

		res.Questions = append(res.Questions, q)
	}

	return res
}

func (p *Parser) parseRow(lineNum int, line string) (entities.Question, error) {
	fields, err := splitFields(line)
	if err != nil {
		return entities.Question{}, err
	}

	if len(fields) < minColumns {
		return entities.Question{}, fmt.Errorf("%w: got %d, want at least %d", ErrTooFewColumns, len(fields), minColumns)
	}

	category := fields[colCategory]
	text := fields[colText]
	options := fields[colOptionA : colOptionD+1]

	if category == "" || text == "" || options[0] == "" || options[1] == "" {
		return entities.Question{}, ErrMissingField
	}

	correct, err := p.correctIndex(lineNum, fields[colCorrect])
	if err != nil {
		return entities.Question{}, err
	}

	image := p.normalizeImage(optionalField(fields, colImage))
	explanation := optionalField(fields, colExplanation)

	return entities.NewQuestion(
		questionID(lineNum, category, text),
		category,
		text,
		options,
		correct,
		image,
		explanation,
	), nil
}

// correctIndex converts the 1-based correct column to a 0-based index.
func (p *Parser) correctIndex(lineNum int, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	idx := n - 1
	if err == nil && idx >= 0 && idx < entities.OptionsCount {
		return idx, nil
	}

	if p.opts.StrictCorrect {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCorrect, raw)
	}

	p.logger.Warn("invalid correct answer column, defaulting to option A",
		zap.Int("line", lineNum),
		zap.String("value", raw),
	)
	return 0, nil
}

// normalizeImage makes a relative image path resolve against the hosting location.
func (p *Parser) normalizeImage(path string) string {
	if path == "" {
		return ""
	}

	if !strings.HasPrefix(path, "http") && !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "./") {
		path = p.opts.ImagePrefix + path
	}

	return strings.ReplaceAll(path, " ", "%20")
}

// splitFields splits a line on commas outside double quotes.
// Inside quotes a doubled quote stands for a literal one.
func splitFields(line string) ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	if inQuotes {
		return nil, ErrUnterminatedQuote
	}

	fields = append(fields, strings.TrimSpace(field.String()))
	return fields, nil
}

func optionalField(fields []string, idx int) string {
	if idx < len(fields) {
		return fields[idx]
	}
	return ""
}

// questionID derives a stable ID from the row position and its content.
func questionID(lineNum int, category, text string) string {
	name := fmt.Sprintf("%d\x00%s\x00%s", lineNum, category, text)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
