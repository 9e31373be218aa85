package cashbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are written as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeState serializes the snapshot as indented JSON.
func EncodeState(s State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode state: %w", err)
	}
	return data, nil
}

// DecodeState reads a snapshot and merges it with DefaultState.
//
// It never fails to produce a usable State: fields of the wrong shape fall
// back to their default, array elements that cannot be decoded are dropped,
// and settings are merged field by field. A document that is not a JSON
// object at all yields DefaultState. The returned error lists every fallback
// that was applied, it is nil when the snapshot was clean.
func DecodeState(data []byte) (State, error) {
	s := DefaultState()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep amounts exact
	var root any
	if err := dec.Decode(&root); err != nil {
		return DefaultState(), fmt.Errorf("unreadable snapshot, using default state: %w", err)
	}
	if _, ok := root.(map[string]any); !ok {
		return DefaultState(), fmt.Errorf("snapshot is a %s, not an object, using default state", kindOf(root))
	}

	var errs []error
	errs = append(errs, decodeArray(root, "$.accounts", &s.Accounts)...)
	errs = append(errs, decodeArray(root, "$.transactions", &s.Transactions)...)
	errs = append(errs, decodeArray(root, "$.documents", &s.Documents)...)
	errs = append(errs, decodeArray(root, "$.incomeCategories", &s.IncomeCategories)...)
	errs = append(errs, decodeArray(root, "$.expenseCategories", &s.ExpenseCategories)...)
	errs = append(errs, decodeArray(root, "$.invoiceOperationTypes", &s.InvoiceOperationTypes)...)
	errs = append(errs, decodeArray(root, "$.modules", &s.Modules)...)

	if v, found := lookup(root, "$.archivedData"); found {
		if m, ok := v.(map[string]any); ok {
			s.ArchivedData = m
		} else {
			errs = append(errs, fmt.Errorf("$.archivedData is a %s, using default", kindOf(v)))
		}
	}
	errs = append(errs, decodeSettings(root, &s.Settings)...)

	if added := s.ensureEssentials(); len(added) > 0 {
		errs = append(errs, fmt.Errorf("restored essential categories %q", added))
	}
	return s, errors.Join(errs...)
}

// lookup returns the value at path. jsonpath reports a missing key as an error.
func lookup(root any, path string) (any, bool) {
	v, err := jsonpath.Get(path, root)
	if err != nil {
		return nil, false
	}
	return v, true
}

// decodeArray replaces *dst with the array found at path, if any. Elements
// that do not decode into T are dropped. A value that is not an array leaves
// *dst untouched.
func decodeArray[T any](root any, path string, dst *[]T) (errs []error) {
	v, found := lookup(root, path)
	if !found {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return []error{fmt.Errorf("%s is a %s, using default", path, kindOf(v))}
	}
	out := make([]T, 0, len(list))
	for i, elem := range list {
		var t T
		if err := reDecode(elem, &t); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d] dropped: %w", path, i, err))
			continue
		}
		out = append(out, t)
	}
	*dst = out
	return errs
}

// reDecode converts a generic JSON value into v.
func reDecode(val any, v any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func decodeSettings(root any, s *Settings) (errs []error) {
	if v, found := lookup(root, "$.settings"); found {
		if _, ok := v.(map[string]any); !ok {
			return []error{fmt.Errorf("$.settings is a %s, using default", kindOf(v))}
		}
	}
	if v, found := lookup(root, "$.settings.aeatModuleActive"); found {
		if b, ok := v.(bool); ok {
			s.AEATModuleActive = b
		} else {
			errs = append(errs, fmt.Errorf("$.settings.aeatModuleActive is a %s, using default", kindOf(v)))
		}
	}
	fields := []struct {
		path string
		dst  *string
	}{
		{"$.settings.aeatConfig.certPath", &s.AEATConfig.CertPath},
		{"$.settings.aeatConfig.certPass", &s.AEATConfig.CertPass},
		{"$.settings.aeatConfig.endpoint", &s.AEATConfig.Endpoint},
		{"$.settings.aeatConfig.apiKey", &s.AEATConfig.APIKey},
	}
	for _, f := range fields {
		v, found := lookup(root, f.path)
		if !found || v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			*f.dst = str
		} else {
			errs = append(errs, fmt.Errorf("%s is a %s, using default", f.path, kindOf(v)))
		}
	}
	const ratePath = "$.settings.fiscalParameters.corporateTaxRate"
	if v, found := lookup(root, ratePath); found && v != nil {
		var text string
		switch x := v.(type) {
		case json.Number:
			text = x.String()
		case string:
			text = x
		}
		rate, err := decimal.NewFromString(text)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, fmt.Errorf("%s %v is not a valid rate, using default", ratePath, v))
		} else {
			s.FiscalParameters.CorporateTaxRate = rate
		}
	}
	return errs
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
