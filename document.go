package cashbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocType is the kind of billing document.
type DocType int

const (
	Proforma DocType = iota
	Factura
)

func (t DocType) String() string {
	switch t {
	case Proforma:
		return "Proforma"
	case Factura:
		return "Factura"
	default:
		return fmt.Sprintf("DocType(%d)", int(t))
	}
}

// ParseDocType accepts "Proforma" and "Factura" (or "invoice").
func ParseDocType(s string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proforma":
		return Proforma, nil
	case "factura", "invoice":
		return Factura, nil
	default:
		return Proforma, fmt.Errorf("unknown document type %q", s)
	}
}

func (t DocType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *DocType) UnmarshalText(text []byte) error {
	v, err := ParseDocType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DocStatus is the collection state of a document.
type DocStatus int

const (
	Adeudada DocStatus = iota // owed
	Cobrada                   // collected
)

func (s DocStatus) String() string {
	switch s {
	case Adeudada:
		return "Adeudada"
	case Cobrada:
		return "Cobrada"
	default:
		return fmt.Sprintf("DocStatus(%d)", int(s))
	}
}

// Toggle returns the other status.
func (s DocStatus) Toggle() DocStatus {
	if s == Cobrada {
		return Adeudada
	}
	return Cobrada
}

func (s DocStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DocStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "adeudada", "owed":
		*s = Adeudada
	case "cobrada", "collected":
		*s = Cobrada
	default:
		return fmt.Errorf("unknown document status %q", string(text))
	}
	return nil
}

// VATRate is the domestic and intra-EU VAT rate, in percent.
var VATRate = decimal.NewFromInt(21)

// Item is an invoice line.
type Item struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Total is quantity × price.
func (i Item) Total() decimal.Decimal { return i.Quantity.Mul(i.Price) }

// Document is a proforma or an invoice. Documents never move money.
//
// Subtotal, IVA and Total are computed once when an invoice is created.
type Document struct {
	ID            string           `json:"id"`
	Type          DocType          `json:"type"`
	Date          date.Date        `json:"date"`
	Number        string           `json:"number"`
	Client        string           `json:"client"`
	NIF           string           `json:"nif"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Status        DocStatus        `json:"status"`
	Items         []Item           `json:"items,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	IVA           *decimal.Decimal `json:"iva,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	OperationType string           `json:"operationType,omitempty"`
}

// Money returns the document amount with its currency.
func (d Document) Money() Money { return M(d.Amount, d.Currency) }

// ItemInput is a raw invoice line as typed by the user.
type ItemInput struct {
	Description string
	Quantity    string
	Price       string
}

// DocumentInput is the form-like description of a new document.
type DocumentInput struct {
	Type          DocType
	Date          date.Date
	Number        string // generated when empty
	Client        string
	NIF           string
	Amount        string // proformas without items only
	Currency      string
	Items         []ItemInput
	OperationType string // invoices only, defaults to OperationDomestic
}

// invoiceTotals computes the frozen totals of an invoice.
func invoiceTotals(items []Item, operationType string) (subtotal, iva, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}
	rate := VATRate
	if isExportOperation(operationType) {
		rate = decimal.Zero
	}
	iva = subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	total = subtotal.Add(iva)
	return subtotal, iva, total
}

func parseItems(in []ItemInput) ([]Item, error) {
	items := make([]Item, 0, len(in))
	for i, it := range in {
		q, err := parseAmount(fmt.Sprintf("items[%d].quantity", i), it.Quantity, false)
		if err != nil {
			return nil, err
		}
		p, err := parseAmount(fmt.Sprintf("items[%d].price", i), it.Price, true)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Description: strings.TrimSpace(it.Description), Quantity: q, Price: p})
	}
	return items, nil
}

// Documents returns a copy of all documents.
func (l *Ledger) Documents() []Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneDocuments(l.state.Documents)
}

// Document returns the document with the given id.
func (l *Ledger) Document(id string) (Document, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.documentIndex(id)
	if i < 0 {
		return Document{}, false
	}
	return cloneDocuments(l.state.Documents[i : i+1])[0], true
}

// AddDocument validates and stores a new document with status Adeudada.
func (l *Ledger) AddDocument(in DocumentInput) (Document, error) {
	if strings.TrimSpace(in.Client) == "" {
		return Document{}, invalid("client", in.Client, "is required")
	}
	if in.Date.IsZero() {
		in.Date = date.Today()
	}
	cur := normalizeCurrency(in.Currency)
	if cur == "" {
		cur = "EUR"
	}
	items, err := parseItems(in.Items)
	if err != nil {
		return Document{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	doc := Document{
		ID:       uuid.NewString(),
		Type:     in.Type,
		Date:     in.Date,
		Number:   strings.TrimSpace(in.Number),
		Client:   strings.TrimSpace(in.Client),
		NIF:      strings.ToUpper(strings.TrimSpace(in.NIF)),
		Currency: cur,
		Status:   Adeudada,
		Items:    items,
	}

	switch in.Type {
	case Factura:
		if len(items) == 0 {
			return Document{}, invalid("items", "", "an invoice needs at least one line")
		}
		op := strings.TrimSpace(in.OperationType)
		if op == "" {
			op = OperationDomestic
		}
		if !slices.Contains(l.state.InvoiceOperationTypes, op) {
			return Document{}, invalid("operationType", op, "is not a registered operation type")
		}
		subtotal, iva, total := invoiceTotals(items, op)
		doc.OperationType = op
		doc.Subtotal, doc.IVA, doc.Total = &subtotal, &iva, &total
		doc.Amount = total
	default:
		if len(items) > 0 {
			subtotal, _, _ := invoiceTotals(items, OperationExport)
			doc.Amount = subtotal
		} else {
			doc.Amount, err = parseAmount("amount", in.Amount, false)
			if err != nil {
				return Document{}, err
			}
		}
	}

	if doc.Number == "" {
		doc.Number = l.nextDocumentNumber(doc.Type, doc.Date.Year())
	}
	l.state.Documents = append(l.state.Documents, doc)
	l.log.Info().Str("id", doc.ID).Str("type", doc.Type.String()).Str("number", doc.Number).Str("amount", doc.Amount.String()).Msg("document added")
	l.commit()
	return cloneDocuments([]Document{doc})[0], nil
}

// nextDocumentNumber returns "F-2024-003" style numbers, "P-" for proformas.
func (l *Ledger) nextDocumentNumber(t DocType, year int) string {
	prefix := "P"
	if t == Factura {
		prefix = "F"
	}
	n := 1
	for _, d := range l.state.Documents {
		if d.Type == t && d.Date.Year() == year {
			n++
		}
	}
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n)
}

// ToggleDocumentStatus flips a document between Adeudada and Cobrada and
// returns the new status.
func (l *Ledger) ToggleDocumentStatus(id string) (DocStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.documentIndex(id)
	if i < 0 {
		return Adeudada, fmt.Errorf("document %q: %w", id, ErrDocumentNotFound)
	}
	doc := &l.state.Documents[i]
	doc.Status = doc.Status.Toggle()
	l.log.Info().Str("id", id).Str("status", doc.Status.String()).Msg("document status toggled")
	l.commit()
	return doc.Status, nil
}

// DeleteDocument removes a document. The caller must have obtained an explicit
// user confirmation, otherwise ErrConfirmationRequired is returned and
// nothing happens. Deleting an unknown id is a no-op.
func (l *Ledger) DeleteDocument(id string, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("delete document %q: %w", id, ErrConfirmationRequired)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.documentIndex(id)
	if i < 0 {
		return nil
	}
	l.state.Documents = slices.Delete(l.state.Documents, i, i+1)
	l.log.Info().Str("id", id).Msg("document deleted")
	l.commit()
	return nil
}

func (l *Ledger) documentIndex(id string) int {
	return slices.IndexFunc(l.state.Documents, func(d Document) bool { return d.ID == id })
}

func cloneDocuments(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		d.Items = slices.Clone(d.Items)
		out[i] = d
	}
	return out
}
