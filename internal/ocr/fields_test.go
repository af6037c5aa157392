package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldsIdentifiers(t *testing.T) {
	t.Parallel()

	text := "REGISTRO GERAL\nRG: 12.345.678-9\nCPF: 123.456.789-01"
	data, scores := ParseFields(text)

	assert.Equal(t, "12345678901", data[FieldCPF])
	assert.Equal(t, ConfidenceHigh, scores[FieldCPF])
	assert.Equal(t, "123456789", data[FieldRG])
	assert.Equal(t, ConfidenceHigh, scores[FieldRG])
}

func TestParseFieldsCPFWithSpaces(t *testing.T) {
	t.Parallel()

	data, _ := ParseFields("CPF 123 456 789 01")
	assert.Equal(t, "12345678901", data[FieldCPF])
}

func TestParseFieldsLabeledLines(t *testing.T) {
	t.Parallel()

	text := "Nome: Maria da Silva\n" +
		"Mãe: Ana Souza\n" +
		"Pai: José Silva\n" +
		"Endereço: Rua das Flores, 123\n" +
		"Telefone: (11) 98765-4321"

	data, scores := ParseFields(text)

	assert.Equal(t, "Maria da Silva", data[FieldName])
	assert.Equal(t, "Ana Souza", data[FieldMother])
	assert.Equal(t, "José Silva", data[FieldFather])
	assert.Equal(t, "Rua das Flores, 123", data[FieldAddress])
	assert.Equal(t, "11987654321", data[FieldPhone])

	for _, field := range []string{FieldName, FieldMother, FieldFather, FieldAddress, FieldPhone} {
		assert.Equal(t, ConfidenceMedium, scores[field], field)
	}
}

func TestParseFieldsEmail(t *testing.T) {
	t.Parallel()

	data, scores := ParseFields("Contato: Maria.Silva@Example.COM")
	assert.Equal(t, "maria.silva@example.com", data[FieldEmail])
	assert.Equal(t, ConfidenceHigh, scores[FieldEmail])
}

func TestParseFieldsDOB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "four digit year", text: "Data de Nascimento: 05/03/1999", want: "1999-03-05"},
		{name: "two digit year rolls back", text: "nascimento: 05/03/99", want: "1999-03-05"},
		{name: "two digit year this century", text: "nascimento: 10/12/04", want: "2004-12-10"},
		{name: "dash separators", text: "Nascimento: 01-02-1985", want: "1985-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, _ := parseFields(tt.text, 2025)
			require.Contains(t, data, FieldDOB)
			assert.Equal(t, tt.want, data[FieldDOB])
		})
	}
}

func TestParseFieldsNoLabels(t *testing.T) {
	t.Parallel()

	data, scores := ParseFields("texto sem nenhum campo reconhecivel")
	assert.Empty(t, data)
	assert.Empty(t, scores)

	data, scores = ParseFields("   \n\t  ")
	assert.Empty(t, data)
	assert.Empty(t, scores)
}
