package report

import (
	"strings"
)

// ResolveID produz o identificador canônico de um representante a
// partir do par (código, nome). O código trimado vence quando presente
// e não é a grafia textual de valor ausente ("nan"); caso contrário o
// nome trimado em caixa alta é usado. Esta é a chave de junção entre o
// relatório e o armazém de metas: toda rota que precisa dela deve
// passar por aqui, senão a junção falha em silêncio.
func ResolveID(codigo, nome string) string {
	c := strings.TrimSpace(codigo)
	if c != "" && !strings.EqualFold(c, "nan") {
		return c
	}
	return strings.ToUpper(strings.TrimSpace(nome))
}
