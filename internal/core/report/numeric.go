package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDecimal converte texto numérico brasileiro ou anglo ("1.234,56",
// "R$ 1.234,56", "1,234.56", "1500.5") para ponto flutuante. Retorna nil
// quando a entrada não é interpretável; o chamador deve tratar nil como
// "desconhecido", nunca como zero, ao calcular razões.
func ParseDecimal(val string) *float64 {
	s := strings.TrimSpace(val)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}

	// tratar sinais/parenteses
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	// localizar última ocorrência de . e , para decidir formato
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if lastDot > lastComma {
		if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			decimalPart := parts[len(parts)-1]
			intPart := strings.Join(parts[:len(parts)-1], "")
			s = intPart + "." + decimalPart
		}
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	// descartar qualquer resíduo que não seja dígito ou ponto
	var filtered strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			filtered.WriteRune(r)
		}
	}
	s = filtered.String()
	if s == "" || s == "." {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if neg {
		f = -f
	}
	return &f
}

// valorOuZero resolve um texto numérico tratando o não interpretável
// como zero. Uso restrito a somas de agregação.
func valorOuZero(val string) float64 {
	if f := ParseDecimal(val); f != nil {
		return *f
	}
	return 0
}

// FormatBRL formata um valor em moeda brasileira: "R$ 1.234,56".
func FormatBRL(val float64) string {
	sinal := ""
	if val < 0 {
		sinal = "-"
	}
	s := fmt.Sprintf("%.2f", math.Abs(val))
	parts := strings.SplitN(s, ".", 2)
	inteiro, decimal := parts[0], parts[1]

	var b strings.Builder
	for i, d := range inteiro {
		if i > 0 && (len(inteiro)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "R$ " + sinal + b.String() + "," + decimal
}
