package tenant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, js string) Record {
	t.Helper()
	recs, err := Read(Source{Inline: "[" + js + "]"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	return recs[0]
}

func TestValidate_OK(t *testing.T) {
	tn, err := Validate(rec(t, `{"name":" Alice ","email":"a@x.com","payment_amount":"950","payment_description":"March rent"}`))
	require.NoError(t, err)
	require.Equal(t, "Alice", tn.Name)
	require.Equal(t, "a@x.com", tn.Email)
	require.Equal(t, "950.00", tn.PaymentAmount.StringFixed(2))
	require.Equal(t, "March rent", tn.PaymentDescription)
	require.Empty(t, tn.PropertyLocation)
}

func TestValidate_NumericAmountKeepsPrecision(t *testing.T) {
	tn, err := Validate(rec(t, `{"name":"Bob","email":"b@x.com","payment_amount":1234.567,"payment_description":"rent","property_location":"Unit 2"}`))
	require.NoError(t, err)
	require.Equal(t, "1234.57", tn.PaymentAmount.StringFixed(2))
	require.Equal(t, "Unit 2", tn.PropertyLocation)
}

func TestValidate_MissingFields(t *testing.T) {
	cases := map[string]struct {
		js    string
		field string
	}{
		"no name":        {`{"email":"a@x.com","payment_amount":1,"payment_description":"d"}`, FieldName},
		"no email":       {`{"name":"A","payment_amount":1,"payment_description":"d"}`, FieldEmail},
		"null email":     {`{"name":"A","email":null,"payment_amount":1,"payment_description":"d"}`, FieldEmail},
		"blank email":    {`{"name":"A","email":"   ","payment_amount":1,"payment_description":"d"}`, FieldEmail},
		"no amount":      {`{"name":"A","email":"a@x.com","payment_description":"d"}`, FieldAmount},
		"no description": {`{"name":"A","email":"a@x.com","payment_amount":1}`, FieldDescription},
		"first one wins": {`{"payment_amount":1}`, FieldName},
		"empty object":   {`{}`, FieldName},
		"blank amount":   {`{"name":"A","email":"a@x.com","payment_amount":"","payment_description":"d"}`, FieldAmount},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(rec(t, tc.js))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
			require.Equal(t, "Missing field: "+tc.field, ve.Reason)
		})
	}
}

func TestValidate_InvalidAmount(t *testing.T) {
	cases := map[string]struct {
		amount string
		raw    string
	}{
		"word":               {`"nine hundred"`, "nine hundred"},
		"currency":           {`"$950"`, "$950"},
		"bool":               {`true`, "true"},
		"object":             {`{"v":1}`, `{"v":1}`},
		"negative":           {`-950`, "-950"},
		"too many digits":    {`"1000000000000"`, "1000000000000"},
		"huge exponent":      {`"1e50000000"`, "1e50000000"},
		"huge json number":   {`1e2000000000`, "1e2000000000"},
		"tiny exponent":      {`"1e-2000000000"`, "1e-2000000000"},
		"zero huge exponent": {`"0e99999999"`, "0e99999999"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := rec(t, `{"name":"A","email":"a@x.com","payment_amount":`+tc.amount+`,"payment_description":"d"}`)
			_, err := Validate(r)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, FieldAmount, ve.Field)
			require.Equal(t, "Invalid payment_amount: "+tc.raw, ve.Reason)
		})
	}
}

func TestRecord_NameEmailBestEffort(t *testing.T) {
	r := Record{FieldName: json.Number("7"), FieldEmail: "  x@y.z "}
	require.Equal(t, "7", r.Name())
	require.Equal(t, "x@y.z", r.Email())
	require.Equal(t, "", Record{}.Email())
}

func TestValidate_AmountBounds(t *testing.T) {
	cases := map[string]string{
		`"999999999999.99"`: "999999999999.99",
		`"1e3"`:             "1000.00",
		`0`:                 "0.00",
		`"0.005"`:           "0.01",
	}
	for amount, want := range cases {
		t.Run(amount, func(t *testing.T) {
			tn, err := Validate(rec(t, `{"name":"A","email":"a@x.com","payment_amount":`+amount+`,"payment_description":"d"}`))
			require.NoError(t, err)
			require.Equal(t, want, tn.PaymentAmount.StringFixed(2))
		})
	}
}
