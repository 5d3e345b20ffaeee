// Package form keeps the values of a form and the messages of its failed rules.
package form

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Values maps field names to their current text.
type Values map[string]string

// Errors maps field names to the message of the first rule they failed.
type Errors map[string]string

// Rule checks one field. A failed rule is reported in Errors, never as a Go error.
type Rule struct {
	Field   string
	Message string
	Valid   func(value string) bool
}

// Email requires field to contain an "@".
func Email(field string) Rule {
	return Rule{
		Field:   field,
		Message: "Invalid email address.",
		Valid:   func(v string) bool { return strings.Contains(v, "@") },
	}
}

// MinLength requires field to be at least n characters long.
func MinLength(field string, n int) Rule {
	return Rule{
		Field:   field,
		Message: fmt.Sprintf("%s must be at least %d characters.", cases.Title(language.English).String(field), n),
		Valid:   func(v string) bool { return len([]rune(v)) >= n },
	}
}

type Form struct {
	mu     sync.Mutex
	rules  []Rule
	values Values
	errors Errors
}

func New(initial Values, rules ...Rule) *Form {
	values := make(Values, len(initial))
	maps.Copy(values, initial)
	return &Form{
		rules:  rules,
		values: values,
		errors: Errors{},
	}
}

// HandleChange sets one field. Errors are left as they are until the next Validate.
func (f *Form) HandleChange(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values)
}

func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// Validate replaces Errors with the result of running every rule and reports
// whether none failed. A field keeps the message of its first failed rule.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() bool {
	errs := Errors{}
	for _, r := range f.rules {
		if _, failed := errs[r.Field]; failed {
			continue
		}
		if !r.Valid(f.values[r.Field]) {
			errs[r.Field] = r.Message
		}
	}
	f.errors = errs
	return len(errs) == 0
}

// HandleSubmit returns a submit action: it validates and calls onSubmit with a
// copy of the values only when every rule passed. The action reports whether it submitted.
func (f *Form) HandleSubmit(onSubmit func(Values)) func() bool {
	return func() bool {
		f.mu.Lock()
		ok := f.validateLocked()
		values := maps.Clone(f.values)
		f.mu.Unlock()
		if ok && onSubmit != nil {
			onSubmit(values)
		}
		return ok
	}
}
