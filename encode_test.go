package cashbook

import (
	"slices"
	"testing"
)

func TestDecodeStateCorruptTransactions(t *testing.T) {
	data := []byte(`{
		"accounts": [{"id": "a1", "name": "Banco", "currency": "EUR", "symbol": "€", "balance": 42}],
		"transactions": "corrupt"
	}`)
	s, err := DecodeState(data)
	if err == nil {
		t.Errorf("DecodeState() error = nil, want the fallback reported")
	}
	if s.Transactions == nil || len(s.Transactions) != 0 {
		t.Errorf("DecodeState() transactions = %v, want an empty list", s.Transactions)
	}
	if len(s.Accounts) != 1 || s.Accounts[0].Name != "Banco" {
		t.Fatalf("DecodeState() accounts = %v, want Banco preserved", s.Accounts)
	}

	// balances are a projection, opening the book repairs the stale 42
	l := Open(s)
	assertBalance(t, l, "Banco", "0")
}

func TestDecodeStateFallbacks(t *testing.T) {
	testCases := []struct {
		name  string
		data  string
		check func(t *testing.T, s State)
	}{
		{
			name: "empty",
			data: ``,
			check: func(t *testing.T, s State) {
				if !slices.Equal(s.IncomeCategories, defaultIncomeCategories()) {
					t.Errorf("income categories = %v, want defaults", s.IncomeCategories)
				}
			},
		},
		{
			name: "not json",
			data: `{"accounts": [`,
			check: func(t *testing.T, s State) {
				if len(s.Accounts) != 0 || !s.Settings.FiscalParameters.CorporateTaxRate.Equal(DefaultCorporateTaxRate) {
					t.Errorf("state = %+v, want the default state", s)
				}
			},
		},
		{
			name: "array document",
			data: `[1, 2]`,
			check: func(t *testing.T, s State) {
				if len(s.Modules) != len(defaultModules()) {
					t.Errorf("modules = %v, want defaults", s.Modules)
				}
			},
		},
		{
			name: "bad elements are dropped",
			data: `{"transactions": [
				{"id": "t1", "date": "2024-01-10", "type": "Ingreso", "account": "X", "category": "Ventas", "currency": "EUR", "amount": 100, "part": "A"},
				{"id": "t2", "date": "2024-01-11", "type": "Refund", "account": "X", "amount": 5},
				"garbage"
			]}`,
			check: func(t *testing.T, s State) {
				if len(s.Transactions) != 1 || s.Transactions[0].ID != "t1" || !s.Transactions[0].Amount.Equal(dec("100")) {
					t.Errorf("transactions = %+v, want only t1", s.Transactions)
				}
			},
		},
		{
			name: "english transaction types",
			data: `{"transactions": [{"id": "t1", "date": "2024-01-10", "type": "Expense", "account": "X", "amount": "12.30"}]}`,
			check: func(t *testing.T, s State) {
				if len(s.Transactions) != 1 || s.Transactions[0].Type != Expense || !s.Transactions[0].Amount.Equal(dec("12.3")) {
					t.Errorf("transactions = %+v, want one expense of 12.30", s.Transactions)
				}
			},
		},
		{
			name: "archived data must be an object",
			data: `{"archivedData": [1], "modules": null}`,
			check: func(t *testing.T, s State) {
				if s.ArchivedData == nil || len(s.ArchivedData) != 0 {
					t.Errorf("archivedData = %v, want an empty object", s.ArchivedData)
				}
				if len(s.Modules) != len(defaultModules()) {
					t.Errorf("modules = %v, want defaults", s.Modules)
				}
			},
		},
		{
			name: "settings merged field by field",
			data: `{"settings": {"aeatConfig": {"endpoint": "https://aeat.example", "apiKey": 7}, "fiscalParameters": {"corporateTaxRate": 15}}}`,
			check: func(t *testing.T, s State) {
				if s.Settings.AEATConfig.Endpoint != "https://aeat.example" {
					t.Errorf("endpoint = %q, want it kept", s.Settings.AEATConfig.Endpoint)
				}
				if s.Settings.AEATConfig.APIKey != "" {
					t.Errorf("apiKey = %q, want the default", s.Settings.AEATConfig.APIKey)
				}
				if !s.Settings.FiscalParameters.CorporateTaxRate.Equal(dec("15")) {
					t.Errorf("rate = %v, want 15", s.Settings.FiscalParameters.CorporateTaxRate)
				}
				if s.Settings.AEATModuleActive {
					t.Errorf("aeatModuleActive = true, want the default")
				}
			},
		},
		{
			name: "invalid rate",
			data: `{"settings": {"fiscalParameters": {"corporateTaxRate": "lots"}}}`,
			check: func(t *testing.T, s State) {
				if !s.Settings.FiscalParameters.CorporateTaxRate.Equal(DefaultCorporateTaxRate) {
					t.Errorf("rate = %v, want the default", s.Settings.FiscalParameters.CorporateTaxRate)
				}
			},
		},
		{
			name: "settings not an object",
			data: `{"settings": "on"}`,
			check: func(t *testing.T, s State) {
				if !s.Settings.FiscalParameters.CorporateTaxRate.Equal(DefaultCorporateTaxRate) {
					t.Errorf("rate = %v, want the default", s.Settings.FiscalParameters.CorporateTaxRate)
				}
			},
		},
		{
			name: "essential categories restored",
			data: `{"incomeCategories": ["Ventas"], "expenseCategories": ["Alquiler", 3], "invoiceOperationTypes": []}`,
			check: func(t *testing.T, s State) {
				for _, c := range []string{"Ventas", CategoryTransfer, CategoryOtherIncome} {
					if !slices.Contains(s.IncomeCategories, c) {
						t.Errorf("income categories %v miss %q", s.IncomeCategories, c)
					}
				}
				if slices.Contains(s.IncomeCategories, "Servicios") {
					t.Errorf("income categories %v, want the stored list, not the defaults", s.IncomeCategories)
				}
				if !slices.Contains(s.ExpenseCategories, CategoryFees) || !slices.Contains(s.ExpenseCategories, "Alquiler") {
					t.Errorf("expense categories = %v", s.ExpenseCategories)
				}
				if !slices.Equal(s.InvoiceOperationTypes, defaultOperationTypes()) {
					t.Errorf("operation types = %v", s.InvoiceOperationTypes)
				}
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := DecodeState([]byte(tc.data))
			if s.Transactions == nil || s.Accounts == nil || s.Documents == nil {
				t.Errorf("DecodeState() returned nil collections")
			}
			tc.check(t, s)
		})
	}
}

func TestEncodeDecodeState(t *testing.T) {
	l := newBook(t, AccountInput{Name: "X", Currency: "EUR", InitialBalance: "100", DisplayMeta: map[string]any{"color": "#0a0"}})
	mustCreate(t, l, TransactionInput{Date: day("2024-01-10"), Type: Expense, Account: "X", Category: "Alquiler", Amount: "12.34"})
	if _, err := l.AddDocument(DocumentInput{Type: Factura, Date: day("2024-01-11"), Client: "ACME", Items: []ItemInput{{Description: "x", Quantity: "2", Price: "10"}}}); err != nil {
		t.Fatal(err)
	}
	if err := l.SetCorporateTaxRate("17"); err != nil {
		t.Fatal(err)
	}

	data, err := EncodeState(l.State())
	if err != nil {
		t.Fatalf("EncodeState() error = %v", err)
	}
	s, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() error = %v", err)
	}
	reopened := Open(s)
	assertBalance(t, reopened, "X", "87.66")
	docs := reopened.Documents()
	if len(docs) != 1 || docs[0].Type != Factura || !docs[0].Total.Equal(dec("24.2")) {
		t.Errorf("documents = %+v, want the invoice of 24.20", docs)
	}
	if got := reopened.Settings().FiscalParameters.CorporateTaxRate; !got.Equal(dec("17")) {
		t.Errorf("rate = %v, want 17", got)
	}
	if acc, _ := reopened.Account("X"); acc.DisplayMeta["color"] != "#0a0" {
		t.Errorf("displayMeta = %v", acc.DisplayMeta)
	}
}
