package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shaderlint/internal/catalog"
	"shaderlint/internal/config"
	"shaderlint/internal/logging"
	"shaderlint/internal/report"
	"shaderlint/internal/shaderpack"
)

// ErrAlreadyRunning is returned when a run is requested while another
// is still in flight.
var ErrAlreadyRunning = errors.New("analysis already in progress")

// EntityListFile is the filename of the generated entity list.
const EntityListFile = "entity_list.txt"

// Runner analyzes every discovered shaderpack and writes one report per
// pack. At most one run is active at a time; overlapping requests are
// rejected, which is what watch mode relies on during event bursts.
type Runner struct {
	cfg     *config.Config
	catalog catalog.Catalog
	running atomic.Bool
	log     *logging.Logger
}

// NewRunner creates a runner over the configured shaderpacks directory.
func NewRunner(cfg *config.Config, cat catalog.Catalog) *Runner {
	return &Runner{
		cfg:     cfg,
		catalog: cat,
		log:     logging.Get(logging.CategoryAnalysis),
	}
}

// Run analyzes all shaderpacks. Per-pack failures are logged and do not
// abort the run; the context is honored between packs, not mid-parse.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		r.log.Info("Analysis already in progress, skipping request")
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	runID := uuid.NewString()
	audit := logging.AuditWithRun(runID)
	start := time.Now()
	timer := logging.StartTimer(logging.CategoryPerformance, "analysis run")
	defer timer.StopWithInfo()

	analyzer, err := New(r.cfg, r.catalog)
	if err != nil {
		return err
	}

	packs, err := shaderpack.Discover(r.cfg.Paths.ShaderpacksDir)
	if err != nil {
		audit.RunComplete(runID, time.Since(start).Milliseconds(), false, err.Error())
		return fmt.Errorf("discovering shaderpacks: %w", err)
	}
	audit.RunStart(runID, len(packs))
	if len(packs) == 0 {
		r.log.Info("No shaderpacks found in %s", r.cfg.Paths.ShaderpacksDir)
		audit.RunComplete(runID, time.Since(start).Milliseconds(), true, "")
		return nil
	}
	r.log.Info("Run %s: analyzing %d shaderpacks with %d workers",
		runID, len(packs), r.cfg.Analysis.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Analysis.Workers)
	for _, pack := range packs {
		pack := pack
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.analyzePack(analyzer, runID, pack); err != nil {
				r.log.Error("Analyzing %s failed: %v", pack.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		audit.RunComplete(runID, time.Since(start).Milliseconds(), false, err.Error())
		return err
	}

	if r.cfg.Report.GenerateEntityList {
		path := filepath.Join(r.cfg.Report.Dir, EntityListFile)
		if err := report.WriteEntityList(r.catalog, path); err != nil {
			r.log.Error("Writing entity list failed: %v", err)
		} else {
			audit.EntityListWritten(path)
		}
	}

	r.log.Info("Run %s complete", runID)
	audit.RunComplete(runID, time.Since(start).Milliseconds(), true, "")
	return nil
}

// IsRunning reports whether a run is currently in flight.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) analyzePack(analyzer *Analyzer, runID string, pack shaderpack.Pack) error {
	audit := logging.AuditWithRun(runID)
	start := time.Now()

	rc, err := pack.OpenProperties()
	switch {
	case errors.Is(err, shaderpack.ErrNoProperties):
		// Still worth a report: it shows the pack covers nothing.
		r.log.Warn("%s has no %s, writing empty report", pack.Name, shaderpack.PropertiesPath)
		rc = io.NopCloser(strings.NewReader(""))
	case err != nil:
		r.log.Warn("Skipping %s: %v", pack.Name, err)
		return nil
	}
	defer rc.Close()

	rep, err := analyzer.Analyze(pack.Name, rc)
	if err != nil {
		audit.PackAnalyzed(pack.Name, 0, time.Since(start).Milliseconds(), false, err.Error())
		return err
	}
	rep.RunID = runID
	audit.PackAnalyzed(pack.Name, rep.TotalMissing(), time.Since(start).Milliseconds(), true, "")

	path, err := rep.Write(r.cfg.Report.Dir)
	if err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		audit.ReportWritten(pack.Name, path, info.Size())
	}
	r.log.Info("%s: %d missing blocks, report at %s", pack.Name, rep.TotalMissing(), path)
	return nil
}
