// focusd serves the focus/distraction analysis API.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/workspaceai/focusguard/internal/config"
	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/content"
	"github.com/workspaceai/focusguard/pkg/focus"
	"github.com/workspaceai/focusguard/pkg/model"
	"github.com/workspaceai/focusguard/pkg/ocr"
	"github.com/workspaceai/focusguard/pkg/vision"
	"github.com/workspaceai/focusguard/pkg/web"
)

func main() {
	log.Init(os.Getenv("LOG_LEVEL"))

	cascadeCfg := vision.CascadeConfig{
		Dir:            config.CascadeDir(),
		YuNetModelPath: config.YuNetModelPath(),
		YuNetThresh:    config.FaceDNNConfidence(0.2),
	}
	cascades, err := vision.LoadCascades(cascadeCfg)
	if err != nil {
		log.Error("failed to load detection cascades", "err", err)
		os.Exit(1)
	}
	defer cascades.Close()

	tables, err := content.LoadTables(config.KeywordTablePath())
	if err != nil {
		log.Error("failed to load keyword tables", "err", err)
		os.Exit(1)
	}

	var classifier *content.Classifier
	if url := config.ClassifierURL(); url != "" {
		log.Info("external classifier configured", "url", url)
		classifier = content.NewClassifier(tables, model.NewHTTP(url))
	} else {
		classifier = content.NewClassifier(tables, nil)
	}

	extractor := ocr.New(config.OCREnabled())
	defer extractor.Close()

	server := web.NewServer(
		config.Port(),
		focus.NewPipeline(cascades),
		focus.NewManager(),
		classifier,
		extractor,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	if err := server.Start(); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
