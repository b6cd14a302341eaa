// Package config define a configuração do serviço e sua carga em
// camadas: padrões, arquivo YAML opcional e variáveis de ambiente.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contém a configuração do processo.
type Config struct {
	// Addr é o endereço HTTP de escuta, ex. ":9000".
	Addr string `koanf:"addr"`

	// ExportDir é o diretório vigiado de exportações de venda.
	ExportDir string `koanf:"export_dir"`

	// StorePath é o caminho do documento JSON de metas.
	StorePath string `koanf:"store_path"`

	// Colecoes enumera as coleções aceitas em metas e configuração.
	Colecoes []string `koanf:"colecoes"`

	// TokensAtivos são as grafias que marcam um cliente como ativo nos
	// relatórios por pedido.
	TokensAtivos []string `koanf:"tokens_ativos"`

	// LayoutsData são os formatos dia-primeiro aceitos na data de
	// cadastro do cliente.
	LayoutsData []string `koanf:"layouts_data"`

	// LimiteRetaFinal e LimiteMetade são os cortes de classificação de
	// atingimento.
	LimiteRetaFinal float64 `koanf:"limite_reta_final"`
	LimiteMetade    float64 `koanf:"limite_metade"`
}

// New devolve a configuração padrão.
func New() *Config {
	return &Config{
		Addr:            ":9000",
		ExportDir:       "exporta",
		StorePath:       "data/metas.json",
		Colecoes:        []string{"OUTONO INVERNO", "PRIMAVERA VERÃO", "ALTO VERÃO"},
		TokensAtivos:    []string{"SIM", "S", "ATIVO", "ATIVA", "1", "TRUE", "VERDADEIRO"},
		LayoutsData:     []string{"02/01/2006", "02/01/06", "02-01-2006"},
		LimiteRetaFinal: 0.8,
		LimiteMetade:    0.5,
	}
}

// Load monta a configuração em ordem de precedência crescente:
//  1. padrões (New)
//  2. arquivo YAML apontado por METAS_CONFIG
//  3. variáveis de ambiente com prefixo METAS_
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("METAS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// METAS_EXPORT_DIR -> export_dir, e assim por diante
	envProvider := env.Provider("METAS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "metas_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr não pode ser vazio")
	}
	if cfg.StorePath == "" {
		return nil, errors.New("store_path não pode ser vazio")
	}
	if len(cfg.Colecoes) == 0 {
		return nil, errors.New("ao menos uma coleção deve ser configurada")
	}
	return &cfg, nil
}
