// Package timeseries validates the optional objective time series of an instance.
package timeseries

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/benchlib/submission-validator/model"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	log "github.com/sirupsen/logrus"
)

// FileSuffix is appended to the instance name, optionally followed by ".gz".
const FileSuffix = "_objective_time_series.json"

const schemaURL = "objective_time_series.schema.json"

//go:embed objective_time_series.schema.json
var schemaSource string

var (
	compileOnce sync.Once
	schema      *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			compileErr = errors.Wrap(err, "failed to add objective time series schema")

			return
		}
		schema, compileErr = compiler.Compile(schemaURL)
	})

	return schema, compileErr
}

// Find returns the time series file of instance in dir, the plain JSON file first, or "" if
// there is none.
func Find(instance, dir string) string {
	for _, name := range []string{instance + FileSuffix, instance + FileSuffix + ".gz"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Load reads and decodes a time series file, decompressing it when the name ends in .gz.
// The NaN, Infinity and -Infinity literals written by Python's json module are accepted and
// decode as nil.
func Load(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var v any
	decoder := json.NewDecoder(bytes.NewReader(nullNonFinite(body)))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("extra data after the JSON value")
	}

	return v, nil
}

var nonFiniteLiterals = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

// nullNonFinite replaces non-finite number literals outside of strings with null. Anything
// else, valid or not, is left for the decoder.
func nullNonFinite(body []byte) []byte {
	var out []byte
	inString, escaped := false, false
	last := 0

	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}

			continue
		}
		if c == '"' {
			inString = true

			continue
		}
		for _, literal := range nonFiniteLiterals {
			if bytes.HasPrefix(body[i:], literal) {
				out = append(out, body[last:i]...)
				out = append(out, "null"...)
				i += len(literal) - 1
				last = i + 1

				break
			}
		}
	}
	if out == nil {
		return body
	}

	return append(out, body[last:]...)
}

// Validate checks the time series of instance, if there is one, and records the outcome on
// report. A missing file is not a failure.
func Validate(instance, dir string, report *model.InstanceReport) {
	path := Find(instance, dir)
	if path == "" {
		report.Info("Objective time series file not provided (optional).")

		return
	}
	name := filepath.Base(path)
	log.Debugf("validating objective time series %s", path)

	data, err := Load(path)
	if err != nil {
		report.Failf("%s: invalid JSON: %v", name, err)

		return
	}

	problems, err := Check(data)
	if err != nil {
		report.Failf("%s: %v", name, err)

		return
	}
	for _, p := range problems {
		report.Failf("%s: %s", name, p)
	}
	if len(problems) == 0 {
		runs, entries := Count(data)
		report.Infof("%s: %d runs, %d entries.", name, runs, entries)
	}
}

// Check validates decoded time series data against the schema and returns one message per
// violation, in document order.
func Check(data any) ([]string, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	err = s.Validate(data)
	if err == nil {
		return nil, nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, errors.Wrap(err, "failed to validate objective time series")
	}

	leaves := collectLeaves(validationErr, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		return lessLocation(pointerIndices(leaves[i].InstanceLocation), pointerIndices(leaves[j].InstanceLocation))
	})

	var problems []string
	for _, leaf := range leaves {
		problems = append(problems, describe(leaf))
	}

	return problems, nil
}

// Count returns the number of runs and entries of data that passed Check.
func Count(data any) (int, int) {
	runs, _ := data.([]any)
	entries := 0
	for _, run := range runs {
		r, _ := run.([]any)
		entries += len(r)
	}

	return len(runs), entries
}

func collectLeaves(err *jsonschema.ValidationError, leaves []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return append(leaves, err)
	}
	for _, cause := range err.Causes {
		leaves = collectLeaves(cause, leaves)
	}

	return leaves
}

// describe turns a schema violation into a message. Runs and entries are numbered from 1.
func describe(leaf *jsonschema.ValidationError) string {
	idx := pointerIndices(leaf.InstanceLocation)
	keyword := leaf.KeywordLocation[strings.LastIndex(leaf.KeywordLocation, "/")+1:]

	switch {
	case keyword == "type" && len(idx) == 0:
		return "must be a list of runs."
	case keyword == "type" && len(idx) == 1:
		return fmt.Sprintf("run %d must be a list.", idx[0]+1)
	case keyword == "type" && len(idx) == 2:
		return fmt.Sprintf("run %d entry %d must be an object.", idx[0]+1, idx[1]+1)
	case keyword == "required" && len(idx) == 2:
		return fmt.Sprintf("run %d entry %d must contain 'Time' and 'Incumbent' keys.", idx[0]+1, idx[1]+1)
	default:
		return fmt.Sprintf("%s: %s", leaf.InstanceLocation, leaf.Message)
	}
}

// pointerIndices parses a JSON pointer made of array indices, e.g. "/0/3".
func pointerIndices(pointer string) []int {
	var idx []int
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			n = -1
		}
		idx = append(idx, n)
	}

	return idx
}

func lessLocation(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return len(a) < len(b)
}
