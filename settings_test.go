package cashbook

import (
	"errors"
	"testing"
)

func TestSetCorporateTaxRate(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "17", want: "17"},
		{in: "0", want: "0"},
		{in: "23,5", want: "23.5"},
		{in: "100", want: "100"},
		{in: "101", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "high", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			l := NewLedger()
			err := l.SetCorporateTaxRate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("SetCorporateTaxRate(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			got := l.Settings().FiscalParameters.CorporateTaxRate
			want := DefaultCorporateTaxRate
			if !tc.wantErr {
				want = dec(tc.want)
			}
			if !got.Equal(want) {
				t.Errorf("CorporateTaxRate = %v, want %v", got, want)
			}
		})
	}
}

func TestAEATModule(t *testing.T) {
	l := NewLedger()
	if err := l.SetAEATModuleActive(true); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetAEATModuleActive() without endpoint error = %v, want %v", err, ErrValidation)
	}
	if err := l.SetAEATConfig(AEATConfig{Endpoint: "https://aeat.example/api", CertPath: "cert.p12"}); err != nil {
		t.Fatal(err)
	}
	if err := l.SetAEATModuleActive(true); err != nil {
		t.Fatalf("SetAEATModuleActive() error = %v", err)
	}
	if err := l.SetAEATConfig(AEATConfig{}); !errors.Is(err, ErrValidation) {
		t.Errorf("SetAEATConfig(empty) while active error = %v, want %v", err, ErrValidation)
	}
	s := l.Settings()
	if !s.AEATModuleActive || s.AEATConfig.CertPath != "cert.p12" {
		t.Errorf("Settings() = %+v", s)
	}
}
