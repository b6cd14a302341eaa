package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCarregarTabelaCSV(t *testing.T) {
	Convey("Dado um CSV com ponto e vírgula e cabeçalho após linha vazia", t, func() {
		conteudo := "\n;;\nVendedor;Nome;Vlr. Líquido\n7;Ana;1.500,50\n9;Bruno;200,00\n"
		tabela, err := CarregarTabela(strings.NewReader(conteudo), "export.csv")

		So(err, ShouldBeNil)
		So(tabela.Colunas, ShouldResemble, []string{"Vendedor", "Nome", "Vlr. Líquido"})
		So(tabela.Linhas, ShouldHaveLength, 2)
		So(tabela.Linhas[0][1], ShouldEqual, "Ana")
	})

	Convey("Dado um CSV com vírgula como separador", t, func() {
		conteudo := "Vendedor,Nome,Valor\n7,Ana,10\n"
		tabela, err := CarregarTabela(strings.NewReader(conteudo), "export.csv")

		So(err, ShouldBeNil)
		So(tabela.Colunas, ShouldHaveLength, 3)
	})

	Convey("Dado um CSV com BOM UTF-8", t, func() {
		conteudo := "\xEF\xBB\xBFVendedor;Nome\n7;Ana\n"
		tabela, err := CarregarTabela(strings.NewReader(conteudo), "export.csv")

		So(err, ShouldBeNil)
		So(tabela.Colunas[0], ShouldEqual, "Vendedor")
	})

	Convey("Dado um CSV em cp1252 com acentos", t, func() {
		// "Líquido" com í em latin-1 (0xED)
		conteudo := "Vlr. L\xEDquido;Nome\n10;Ana\n"
		tabela, err := CarregarTabela(strings.NewReader(conteudo), "export.csv")

		So(err, ShouldBeNil)
		So(tabela.Colunas[0], ShouldEqual, "Vlr. Líquido")
	})

	Convey("Dado um CSV sem linha alguma", t, func() {
		_, err := CarregarTabela(strings.NewReader(""), "export.csv")
		So(err, ShouldNotBeNil)
	})

	Convey("Dada uma extensão não suportada", t, func() {
		_, err := CarregarTabela(strings.NewReader("x"), "export.pdf")
		So(err, ShouldNotBeNil)
	})
}

func TestDetectarDelimitador(t *testing.T) {
	Convey("O separador mais frequente da primeira linha vence", t, func() {
		So(detectarDelimitador([]byte("a;b;c\n1,2;3")), ShouldEqual, ';')
		So(detectarDelimitador([]byte("a,b,c")), ShouldEqual, ',')
		So(detectarDelimitador([]byte("a\tb\tc")), ShouldEqual, '\t')
		So(detectarDelimitador([]byte("semseparador")), ShouldEqual, ';')
	})
}

func TestUltimoExport(t *testing.T) {
	Convey("Dado um diretório de exportação", t, func() {
		dir := t.TempDir()

		Convey("Sem arquivo suportado, não há caminho nem erro", func() {
			So(os.WriteFile(filepath.Join(dir, "leia-me.txt"), []byte("x"), 0o644), ShouldBeNil)
			caminho, _, err := UltimoExport(dir)
			So(err, ShouldBeNil)
			So(caminho, ShouldEqual, "")
		})

		Convey("O arquivo modificado por último vence", func() {
			antigo := filepath.Join(dir, "antigo.csv")
			novo := filepath.Join(dir, "novo.csv")
			So(os.WriteFile(antigo, []byte("a;b\n"), 0o644), ShouldBeNil)
			So(os.WriteFile(novo, []byte("a;b\n"), 0o644), ShouldBeNil)
			passado := time.Now().Add(-time.Hour)
			So(os.Chtimes(antigo, passado, passado), ShouldBeNil)

			caminho, modificado, err := UltimoExport(dir)
			So(err, ShouldBeNil)
			So(caminho, ShouldEqual, novo)
			So(modificado.After(passado), ShouldBeTrue)
		})
	})

	Convey("Diretório inexistente não é erro", t, func() {
		caminho, _, err := UltimoExport(filepath.Join(t.TempDir(), "nao-existe"))
		So(err, ShouldBeNil)
		So(caminho, ShouldEqual, "")
	})
}
