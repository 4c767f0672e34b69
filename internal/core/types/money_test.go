package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "100", want: "100"},
		{name: "decimal", input: " 12.50 ", want: "12.5"},
		{name: "negative", input: "-30", want: "-30"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "12,5€", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney("amount", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s", got)
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f, err := NewFormatter("en", "EUR")
	require.NoError(t, err)

	assert.Equal(t, "EUR", f.Base())
	assert.Contains(t, f.Format(MustMoney("1234.5"), ""), "1,234.50")
	assert.Contains(t, f.Format(MustMoney("25"), "USD"), "25.00")
	assert.Contains(t, f.Format(MustMoney("-5"), ""), "-")
	assert.Contains(t, f.Format(MustMoney("1500"), "JPY"), "1,500")
	assert.NotContains(t, f.Format(MustMoney("1500"), "JPY"), ".")
}

func TestFormatter_AmountCarriesBaseCurrency(t *testing.T) {
	f, err := NewFormatter("de", "CHF")
	require.NoError(t, err)

	a := f.Amount(MustMoney("10"))
	assert.Equal(t, "CHF", a.Currency)
	assert.Equal(t, f.Format(a.Value, "CHF"), f.FormatAmount(a))
}

func TestNewFormatter_RejectsUnknownCurrency(t *testing.T) {
	_, err := NewFormatter("en", "XYZW")
	assert.Error(t, err)
}

func TestQuantity_Decimal(t *testing.T) {
	q, err := ParseQuantity("2.5")
	require.NoError(t, err)
	assert.Equal(t, "2.5", q.String())
	assert.True(t, q.Decimal().Equal(MustMoney("2.5")))
	assert.Equal(t, int64(3), NewQuantity(3).Units())

	_, err = ParseQuantity("1.00001")
	assert.Error(t, err)
	_, err = ParseQuantity("two")
	assert.Error(t, err)
}

func TestQuantity_JSON(t *testing.T) {
	var lines []struct {
		Quantity Quantity `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal([]byte(`[{"quantity": 2}, {"quantity": "1.25"}, {"quantity": null}]`), &lines))
	require.Len(t, lines, 3)
	assert.Equal(t, NewQuantity(2), lines[0].Quantity)
	assert.Equal(t, Quantity(12_500), lines[1].Quantity)
	assert.True(t, lines[2].Quantity.IsZero())

	out, err := json.Marshal(lines[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity": 1.25}`, string(out))
}

func TestParseQuantity_OutOfRange(t *testing.T) {
	for _, s := range []string{"1844674407370955.1617", "922337203685477.5808", "-922337203685477.5809"} {
		_, err := ParseQuantity(s)
		assert.Error(t, err, s)
	}

	q, err := ParseQuantity("922337203685477.5807")
	require.NoError(t, err)
	assert.Equal(t, "922337203685477.5807", q.String())

	var line struct {
		Quantity Quantity `json:"quantity"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": 1844674407370955.1617}`), &line))
}
