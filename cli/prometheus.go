// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/browser"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/kittyvm/utils"
)

const (
	fsModeWrite = 0o600

	metricsPath = "/ext/metrics"
)

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

// Panels are the queries of the pre-built kitty dashboard.
func Panels() []string {
	return []string{
		"increase(vm_txs_accepted[5s])/5",
		"increase(vm_txs_submitted[5s])/5",
		"increase(vm_txs_rejected[5s])/5",
		"increase(vm_txs_expired[5s])/5",
		"increase(vm_blocks_built[5s])/5",
		`sum by (action) (increase(chain_actions{success="true"}[5s])/5)`,
		`sum by (action) (increase(chain_actions{success="false"}[5s])/5)`,
		"chain_mempool_size",
		"chain_height",
		"histogram_quantile(0.99, rate(chain_block_build_bucket[5s]))",
		"sum by (code) (increase(api_requests[5s])/5)",
		"histogram_quantile(0.99, rate(api_request_duration_bucket[5s]))",
		"increase(pebble_batch_bytes[5s])/5",
	}
}

// Targets converts node URIs into host:port scrape targets.
func Targets(uris []string) ([]string, error) {
	endpoints := make([]string, len(uris))
	for i, uri := range uris {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		if len(u.Host) == 0 {
			return nil, fmt.Errorf("%w: %q has no host", ErrNoEndpoints, uri)
		}
		endpoints[i] = u.Host
	}
	return endpoints, nil
}

func NewPrometheusConfig(endpoints []string) *PrometheusConfig {
	var prometheusConfig PrometheusConfig
	prometheusConfig.Global.ScrapeInterval = "1s"
	prometheusConfig.Global.EvaluationInterval = "1s"
	prometheusConfig.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "prometheus",
			StaticConfigs: []*PrometheusStaticConfig{
				{
					Targets: endpoints,
				},
			},
			MetricsPath: metricsPath,
		},
	}
	return &prometheusConfig
}

// Dashboard links a prometheus graph page showing [panels].
//
// We must manually encode the params because prometheus skips any panels
// that are not numerically sorted and `url.params` only sorts
// lexicographically.
func Dashboard(baseURI string, panels []string) string {
	dashboard := baseURI + "/graph"
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return dashboard
}

// GeneratePrometheus writes a scrape config for every stored endpoint to
// [prometheusFile] and links (or opens) the kitty dashboard. If
// [startPrometheus], /tmp/prometheus is run until it exits.
func (h *Handler) GeneratePrometheus(ctx context.Context, baseURI string, openBrowser bool, startPrometheus bool, prometheusFile string, prometheusData string) error {
	uris, err := h.GetEndpoints()
	if err != nil {
		return err
	}
	if len(uris) == 0 {
		return ErrNoEndpoints
	}
	if err := h.CloseDatabase(); err != nil {
		return err
	}
	endpoints, err := Targets(uris)
	if err != nil {
		return err
	}

	yamlData, err := yaml.Marshal(NewPrometheusConfig(endpoints))
	if err != nil {
		return err
	}
	if err := os.WriteFile(prometheusFile, yamlData, fsModeWrite); err != nil {
		return err
	}
	dashboard := Dashboard(baseURI, Panels())

	if !startPrometheus {
		if !openBrowser {
			utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)

			// Emit command to run prometheus
			utils.Outf("{{green}}prometheus cmd:{{/}} /tmp/prometheus --config.file=%s --storage.tsdb.path=%s\n", prometheusFile, prometheusData)
			return nil
		}
		return browser.OpenURL(dashboard)
	}

	// Start prometheus and open browser
	//
	// Attempting to exit from the terminal will gracefully
	// stop this process.
	cmd := exec.CommandContext(ctx, "/tmp/prometheus", "--config.file="+prometheusFile, "--storage.tsdb.path="+prometheusData)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-errChan:
			return
		case <-time.After(5 * time.Second):
			if !openBrowser {
				utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
				return
			}
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			if err := browser.OpenURL(dashboard); err != nil {
				utils.Outf("{{red}}unable to open dashboard:{{/}} %s\n", err.Error())
			}
		}
	}()

	utils.Outf("{{cyan}}starting prometheus (/tmp/prometheus) in background{{/}}\n")
	if err := cmd.Run(); err != nil {
		errChan <- err
		utils.Outf("{{orange}}prometheus exited with error:{{/}} %v\n", err)
		return err
	}
	utils.Outf("{{cyan}}prometheus exited{{/}}\n")
	return nil
}
