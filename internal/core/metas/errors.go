package metas

import (
	"errors"
	"strings"
)

// Erros sentinela do armazém de metas, para errors.Is nos chamadores.
var (
	ErrHistoricoCheio         = errors.New("o representante já atingiu o limite de registros de histórico")
	ErrMetaNaoEncontrada      = errors.New("meta não encontrada")
	ErrHistoricoNaoEncontrado = errors.New("registro de histórico não encontrado")
)

// ErroValidacao agrega as mensagens de validação de uma mutação
// rejeitada. Nenhuma escrita parcial acontece quando ele é retornado.
type ErroValidacao struct {
	Mensagens []string
}

func (e *ErroValidacao) Error() string {
	return "validação falhou: " + strings.Join(e.Mensagens, "; ")
}
