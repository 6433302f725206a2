package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"emberforge/core/arena"
	"emberforge/core/logging"
	loggingsinks "emberforge/core/logging/sinks"
	"emberforge/core/tags"
	"emberforge/core/tags/catalog"
)

func summonID(owner string, tick uint64, n int) string {
	return fmt.Sprintf("%s-summon-%d-%d", owner, tick, n)
}

func main() {
	var (
		addr    = flag.String("addr", ":8080", "listen address")
		step    = flag.Duration("step", 250*time.Millisecond, "simulation step interval")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "crit roll seed")
		logFile = flag.String("log-file", "", "append events to this file as JSON lines")
	)
	flag.Parse()

	if err := run(*addr, *step, *seed, *logFile); err != nil {
		log.Fatalf("skirmishd: %v", err)
	}
}

func run(addr string, step time.Duration, seed int64, logFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := catalog.Load(tags.BuiltIn(), catalog.DefaultPaths()...)
	if err != nil {
		return fmt.Errorf("load tag catalog: %w", err)
	}

	watcher, err := catalog.Watch(resolver, "config/tags")
	if err != nil {
		log.Printf("catalog watch disabled: %v", err)
	} else {
		defer watcher.Close()
		go func() {
			for path := range watcher.Reloads {
				log.Printf("catalog reloaded from %s", path)
			}
		}()
		go func() {
			for err := range watcher.Errors {
				log.Printf("catalog reload failed: %v", err)
			}
		}()
	}

	broadcast := newBroadcastSink()
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = []string{"console", "websocket"}
	logCfg.JSON.FilePath = logFile
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingsinks.NewConsoleSink(os.Stdout)},
		{Name: "websocket", Sink: broadcast},
	}
	if logCfg.JSON.FilePath != "" {
		file, err := os.OpenFile(logCfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer file.Close()
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file, logCfg.JSON.FlushInterval)})
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
	}
	router, err := logging.NewRouter(nil, logCfg, namedSinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Printf("close logging router: %v", cerr)
		}
	}()

	world := arena.NewWorld(arena.Config{Step: step, Publisher: router})
	fight := newSkirmish(world, resolver, seed, router)

	go func() {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fight.Step()
			case <-ctx.Done():
				return
			}
		}
	}()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		index := resolver.Index()
		payload := struct {
			Tags map[string]tags.Definition `json:"tags"`
		}{Tags: index}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed: %v", err)
			return
		}
		broadcast.Subscribe(conn)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("skirmishd listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
