package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Http http 服务配置
type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ContextPath     string `mapstructure:"contextPath"`
	PProf           bool   `mapstructure:"pprof"`
	ExposeMetrics   bool   `mapstructure:"exposeMetrics"`
	AccessLog       bool   `mapstructure:"accessLog"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	TLS             TLS    `mapstructure:"tls"`
}

type TLS struct {
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

func NewHttp(cfg Http) *Http {
	h := cfg
	return &h
}

// Server starts the http server and returns a hook that blocks until
// shutdown signals arrive, then drains the server.
func (h *Http) Server(engine *gin.Engine) func() {
	addr := fmt.Sprintf("%s:%d", h.Host, h.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(h.IdleTimeout) * time.Second,
	}

	go func() {
		fmt.Printf("[Init] http server start at: %s\n", addr)

		if h.TLS.CertFile != "" && h.TLS.KeyFile != "" {
			if err := srv.ListenAndServeTLS(h.TLS.CertFile, h.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				panic(err)
			}
		} else {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				panic(err)
			}
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return func() {
		<-sc
		fmt.Println("[shutdown] server is shutting down...")

		c, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(h.ShutdownTimeout))
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(c); err != nil {
			fmt.Println("[shutdown] server shutdown error: ", err)
		}

		fmt.Println("[shutdown] http exit...")
	}
}
