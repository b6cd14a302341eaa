package report

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseDecimal(t *testing.T) {
	Convey("Dado texto numérico de exportadores regionais", t, func() {
		Convey("Interpreta o formato brasileiro", func() {
			So(*ParseDecimal("1.234,56"), ShouldEqual, 1234.56)
			So(*ParseDecimal("R$ 1.234,56"), ShouldEqual, 1234.56)
			So(*ParseDecimal("12,5"), ShouldEqual, 12.5)
			So(*ParseDecimal("1.234.567,89"), ShouldEqual, 1234567.89)
		})

		Convey("Interpreta o formato anglo", func() {
			So(*ParseDecimal("1,234.56"), ShouldEqual, 1234.56)
			So(*ParseDecimal("1500.5"), ShouldEqual, 1500.5)
			So(*ParseDecimal("1500"), ShouldEqual, 1500)
		})

		Convey("Preserva o valor sem arredondar", func() {
			So(*ParseDecimal("0,333333"), ShouldEqual, 0.333333)
		})

		Convey("Trata sinais e parênteses contábeis", func() {
			So(*ParseDecimal("-1.234,56"), ShouldEqual, -1234.56)
			So(*ParseDecimal("(1.234,56)"), ShouldEqual, -1234.56)
		})

		Convey("Entrada não interpretável resulta em nil, nunca em zero", func() {
			So(ParseDecimal(""), ShouldBeNil)
			So(ParseDecimal("   "), ShouldBeNil)
			So(ParseDecimal("abc"), ShouldBeNil)
			So(ParseDecimal("R$"), ShouldBeNil)
			So(ParseDecimal("-"), ShouldBeNil)
		})
	})
}

func TestFormatBRL(t *testing.T) {
	Convey("Dado um valor em reais", t, func() {
		So(FormatBRL(1234.56), ShouldEqual, "R$ 1.234,56")
		So(FormatBRL(0), ShouldEqual, "R$ 0,00")
		So(FormatBRL(999.9), ShouldEqual, "R$ 999,90")
		So(FormatBRL(1234567.891), ShouldEqual, "R$ 1.234.567,89")
		So(FormatBRL(-1500.5), ShouldEqual, "R$ -1.500,50")
	})
}

func TestFormatBRLRoundTrip(t *testing.T) {
	Convey("Formatar e reinterpretar preserva o valor", t, func() {
		for _, entrada := range []string{"1.234,56", "1,234.56", "0,50", "150000"} {
			original := ParseDecimal(entrada)
			So(original, ShouldNotBeNil)
			relido := ParseDecimal(FormatBRL(*original))
			So(relido, ShouldNotBeNil)
			So(*relido, ShouldEqual, *original)
		}
	})
}

func TestValorOuZero(t *testing.T) {
	Convey("Texto não interpretável entra como zero nas somas", t, func() {
		So(valorOuZero("1.500,50"), ShouldEqual, 1500.50)
		So(valorOuZero("n/d"), ShouldEqual, 0)
		So(valorOuZero(""), ShouldEqual, 0)
	})
}
