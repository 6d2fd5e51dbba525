package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errEmptyPayload = errors.New("empty payload")
	errNotAList     = errors.New("expected an array of records")
)

// yamlStart matches a first line that opens a YAML document, a block
// sequence item or a "key:" mapping entry. A comma-separated header never
// has a colon directly after its first word.
var yamlStart = regexp.MustCompile(`^(---|-(\s|$)|[\p{L}_][\p{L}\p{N}_-]*:(\s|$))`)

// rawRecord is the loosely-typed shape found in structured payloads.
type rawRecord struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// wrappedRecords is the alternative structured shape: {"records": [...]}.
// A nil Records means the key was absent or null.
type wrappedRecords struct {
	Records *[]rawRecord `json:"records" yaml:"records"`
}

// DetectFormat picks a payload format from the file name extension, falling
// back to sniffing the content: a leading '[' or '{' is JSON, a first line
// that starts a YAML document, list item or key is YAML, and anything else
// is CSV.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv", ".txt":
		return FormatCSV
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	first, _, _ := bytes.Cut(trimmed, []byte("\n"))
	if yamlStart.Match(bytes.TrimRight(first, "\r")) {
		return FormatYAML
	}
	return FormatCSV
}

// Parse decodes data in the given format into records with sequential IDs
// starting at 1. Every failure is a *ParseError.
func Parse(format Format, data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: format, Err: errEmptyPayload}
	}

	var (
		out []Record
		err error
	)
	switch format {
	case FormatJSON:
		out, err = parseJSON(data)
	case FormatYAML:
		out, err = parseYAML(data)
	case FormatCSV:
		out, err = parseCSV(data)
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unsupported format")}
	}
	if err != nil {
		return nil, err
	}
	assignIDs(out)
	return out, nil
}

func parseJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")

	var raws []rawRecord
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped wrappedRecords
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, &ParseError{Format: FormatJSON, Err: err}
		}
		if wrapped.Records == nil {
			return nil, &ParseError{Format: FormatJSON, Err: errNotAList}
		}
		raws = *wrapped.Records
	} else if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}
	// json leaves the slice nil for a bare null and allocates it for [].
	if raws == nil {
		return nil, &ParseError{Format: FormatJSON, Err: errNotAList}
	}
	return fromRaw(FormatJSON, raws)
}

func parseYAML(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Format: FormatYAML, Err: err}
	}
	if len(node.Content) == 0 {
		return nil, &ParseError{Format: FormatYAML, Err: errEmptyPayload}
	}

	var raws []rawRecord
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&raws); err != nil {
			return nil, &ParseError{Format: FormatYAML, Line: root.Line, Err: err}
		}
	case yaml.MappingNode:
		var wrapped wrappedRecords
		if err := root.Decode(&wrapped); err != nil {
			return nil, &ParseError{Format: FormatYAML, Line: root.Line, Err: err}
		}
		if wrapped.Records == nil {
			return nil, &ParseError{Format: FormatYAML, Line: root.Line, Err: errNotAList}
		}
		raws = *wrapped.Records
	default:
		return nil, &ParseError{Format: FormatYAML, Line: root.Line, Err: errNotAList}
	}
	return fromRaw(FormatYAML, raws)
}

// parseCSV maps rows positionally to name, description, category. The first
// row is a header and is skipped whatever it contains. Quotes inside an
// unquoted field are kept as text; a field that starts with a quote may
// contain commas.
func parseCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	if _, err := r.Read(); err != nil {
		return nil, &ParseError{Format: FormatCSV, Line: 1, Err: err}
	}

	out := []Record{}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Format: FormatCSV, Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{Format: FormatCSV, Err: err}
		}
		if blank(fields) {
			continue
		}
		line, _ := r.FieldPos(0)

		raw := rawRecord{Name: field(fields, 0), Description: field(fields, 1), Category: field(fields, 2)}
		rec, err := raw.validate()
		if err != nil {
			return nil, &ParseError{Format: FormatCSV, Line: line, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func fromRaw(format Format, raws []rawRecord) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := raw.validate()
		if err != nil {
			return nil, &ParseError{Format: format, Err: fmt.Errorf("record %d: %w", i+1, err)}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r rawRecord) validate() (Record, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Record{}, errors.New("missing name")
	}
	cat, err := ParseCategory(r.Category)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Name:        name,
		Description: strings.TrimSpace(r.Description),
		Category:    cat,
	}, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func assignIDs(recs []Record) {
	for i := range recs {
		recs[i].ID = i + 1
	}
}
