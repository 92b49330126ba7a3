package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/nestpath/internal/config"
	"github.com/samvad-hq/nestpath/internal/logger"
	"github.com/samvad-hq/nestpath/internal/source"
	"github.com/samvad-hq/nestpath/internal/storage"
	"github.com/samvad-hq/nestpath/pkg/httpclient"
	"github.com/samvad-hq/nestpath/pkg/nestedmap"
	"github.com/samvad-hq/nestpath/pkg/sinks"
	"gopkg.in/yaml.v3"
)

// DocumentLoader loads the document a path is resolved against.
type DocumentLoader interface {
	Load(ctx context.Context, ref string) (any, error)
}

// EventSender delivers resolved values downstream.
type EventSender interface {
	Send(ctx context.Context, evt sinks.Event) (int, error)
	Size() int
	Close() error
}

// Lookup wires together the document loader, the path accessor, output rendering,
// the delivery ledger and sinks.
type Lookup struct {
	loader DocumentLoader
	store  storage.Store
	sender EventSender
	out    io.Writer
	output string
	log    logger.Logger
}

// NewLookup builds a lookup runtime from config. Results are rendered to out.
func NewLookup(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Lookup, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	headers, err := cfg.RequestHeaders()
	if err != nil {
		return nil, err
	}
	client := httpclient.NewRestyClient(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})
	loader, err := source.NewLoader(client, cfg.SourceFormat, headers)
	if err != nil {
		return nil, err
	}

	fanout, err := buildSinks(ctx, cfg.SinksFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		LookupTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	return newLookup(loader, store, fanout, out, cfg.OutputFormat, log), nil
}

func newLookup(loader DocumentLoader, store storage.Store, sender EventSender, out io.Writer, output string, log logger.Logger) *Lookup {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Lookup{
		loader: loader,
		store:  store,
		sender: sender,
		out:    out,
		output: output,
		log:    log,
	}
}

func buildSinks(ctx context.Context, path string, log logger.Logger) (*sinks.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return sinks.NewFanout(nil), nil
	}

	reg, err := sinks.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabled := reg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	log.InfoObj("sinks registry loaded", "sinks", enabled)
	return sinks.NewFanout(built), nil
}

// Run loads ref, resolves path against it, renders the value and delivers it to sinks.
func (l *Lookup) Run(ctx context.Context, ref string, path []string) (any, error) {
	doc, err := l.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	value, err := nestedmap.Walk(doc, path...)
	if err != nil {
		key, _ := nestedmap.MissingKey(err)
		l.log.WarnObj("path did not resolve", "lookup_miss", map[string]any{
			"source":      ref,
			"path":        path,
			"missing_key": key,
		})
		return nil, fmt.Errorf("resolve %s: %w", strings.Join(path, "."), err)
	}
	l.log.DebugObj("path resolved", "lookup", map[string]any{"source": ref, "path": path})

	if err := Render(l.out, l.output, value); err != nil {
		return value, err
	}
	return value, l.deliver(ctx, ref, path, value)
}

func (l *Lookup) deliver(ctx context.Context, ref string, path []string, value any) error {
	if l.sender == nil || l.sender.Size() == 0 {
		return nil
	}

	evt, err := sinks.NewEvent(ref, path, value)
	if err != nil {
		return err
	}

	if l.store != nil {
		seen, err := l.store.SeenLookup(evt.ID)
		if err != nil {
			return fmt.Errorf("check ledger: %w", err)
		}
		if seen {
			l.log.InfoObj("lookup already delivered; skipping sinks", "lookup_id", evt.ID)
			return nil
		}
	}

	delivered, sendErr := l.sender.Send(ctx, evt)
	l.log.InfoObj("lookup delivered", "delivery", map[string]any{
		"lookup_id": evt.ID,
		"delivered": delivered,
		"sinks":     l.sender.Size(),
	})
	if delivered > 0 && l.store != nil {
		if err := l.store.MarkLookup(evt.ID); err != nil {
			return errors.Join(sendErr, fmt.Errorf("mark ledger: %w", err))
		}
	}
	return sendErr
}

// Close releases sinks and the ledger.
func (l *Lookup) Close() error {
	var errs []error
	if l.sender != nil {
		errs = append(errs, l.sender.Close())
	}
	if l.store != nil {
		errs = append(errs, l.store.Close())
	}
	return errors.Join(errs...)
}

// Render writes value to w as indented JSON or YAML.
func Render(w io.Writer, format string, value any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
