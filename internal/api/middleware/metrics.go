// Package middleware concentra instrumentação HTTP e os contadores
// Prometheus do serviço.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metas_http_requests_total",
		Help: "Total de requisições HTTP por rota, método e status.",
	}, []string{"rota", "metodo", "status"})

	httpDuracao = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metas_http_request_duration_seconds",
		Help:    "Duração das requisições HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"rota", "metodo"})

	// RelatoriosProcessados conta as cargas de relatório bem-sucedidas.
	RelatoriosProcessados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metas_relatorios_processados_total",
		Help: "Total de relatórios de exportação processados.",
	})

	// MutacoesMeta conta as escritas no armazém de metas por operação.
	MutacoesMeta = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metas_mutacoes_total",
		Help: "Total de mutações no armazém de metas.",
	}, []string{"operacao"})

	// FalhasDeRelatorio conta cargas de relatório que falharam na
	// decodificação ou no processamento.
	FalhasDeRelatorio = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metas_relatorios_falhas_total",
		Help: "Total de relatórios de exportação rejeitados com erro.",
	})

	// HistoricoRejeitado conta inserções de histórico barradas pelo
	// limite por representante.
	HistoricoRejeitado = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metas_historico_rejeitado_total",
		Help: "Inserções de histórico rejeitadas pelo limite.",
	})
)

// Metrics registra contadores e duração de cada requisição.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		rota := c.FullPath()
		if rota == "" {
			rota = "desconhecida"
		}
		httpRequests.WithLabelValues(rota, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuracao.WithLabelValues(rota, c.Request.Method).Observe(time.Since(inicio).Seconds())
	}
}

// Handler expõe o endpoint /metrics no formato Prometheus.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
