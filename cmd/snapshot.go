// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	bbridge "driftwatch/cli/internal/bridge"
	"driftwatch/cli/internal/bridge/model"
	"driftwatch/cli/internal/config"
	"driftwatch/cli/internal/drift"
	"driftwatch/cli/internal/dsn"
	"driftwatch/cli/internal/keychain"
	"driftwatch/cli/internal/logging"
	"driftwatch/cli/internal/manifest"
	"driftwatch/cli/internal/schema"

	"atomicgo.dev/cursor"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	verboseSnapshot bool
)

// snapshotCmd represents the snapshot command for running a drift scan.
// It captures the current database schema, uploads it to the backend via the
// gRPC bridge and streams per-object comparison results against the baseline.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a schema snapshot and compare it against the baseline",
	Long: `The snapshot command inspects the configured PostgreSQL database, captures a
schema snapshot and uploads it to the backend service via gRPC bridge. The
backend compares the snapshot against the stored baseline and streams
per-object results back, which are rendered in real time.

The first snapshot of a database establishes its baseline. Subsequent
snapshots report any schema drift since that baseline.`,

	RunE: requireSession(func(cmd *cobra.Command, args []string) error {
		// Enable verbose mode for all modules if --verbose is set
		if verboseSnapshot {
			os.Setenv("DRIFTWATCH_VERBOSE", "1")
		}

		sess, err := currentSession()
		if err != nil {
			return err
		}

		startAt := time.Now()

		// Fetch manifest from server
		m, err := manifest.GetEndpoints(cmd.Context())
		if err != nil {
			return err
		}

		// Resolve DSN from env or keychain (not from config)
		rawDSN := ""
		if env := os.Getenv("DRIFTWATCH_DSN"); strings.TrimSpace(env) != "" {
			rawDSN = strings.TrimSpace(env)
		} else if env := os.Getenv("DATABASE_URL"); strings.TrimSpace(env) != "" {
			rawDSN = strings.TrimSpace(env)
		}
		if strings.TrimSpace(rawDSN) == "" {
			if km, err := keychain.GetManager(); err == nil {
				if v, err := km.Get(keychain.KeyDBDSN); err == nil && strings.TrimSpace(v) != "" {
					rawDSN = strings.TrimSpace(v)
				}
			}
		}
		if strings.TrimSpace(rawDSN) == "" {
			fmt.Println("⚠️  No database connection configured.")
			fmt.Println("   Please run 'driftwatch connect' to configure your database.")
			return nil
		}

		// Parse and normalize the DSN to handle special characters
		normalizedDSN, err := dsn.Parse(rawDSN)
		if err != nil {
			fmt.Println("❌ Invalid database connection string.")
			if parseErr, ok := err.(*dsn.ParseError); ok {
				fmt.Println("   " + parseErr.Error())
			}
			fmt.Println("   Please run 'driftwatch connect' to reconfigure your database.")
			return err
		}

		// Display database connection info (masked)
		maskedDSN := logging.Mask(normalizedDSN)
		dbName := deriveDBName(normalizedDSN)
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Database:   ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(dbName))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connection: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(maskedDSN))
		pterm.Println()

		// Use gRPC address from manifest (no fallback)
		addr := m.GRPCAddress()

		token := sess.Token()
		if token == "" {
			return errors.New("not signed in; run 'driftwatch login' first")
		}

		br := bbridge.New()
		if err := br.Connect(cmd.Context(), addr, token); err != nil {
			pterm.Printf("❌ Failed to connect to Driftwatch service\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}
		// Ensure bridge is closed and token is cleared from memory when the scan finishes
		defer func() {
			_ = br.Close(cmd.Context())
		}()
		if err := br.Init(cmd.Context(), "", dbName); err != nil {
			pterm.Printf("❌ Failed to initialize scan session\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}

		// Header spinner while the comparison runs on the backend
		var headerArea *pterm.AreaPrinter
		headerFrames := []string{"|", "/", "-", "\\"}
		headerIdx := 0
		headerSpinStop := make(chan struct{})
		var headerSpinWG sync.WaitGroup
		headerStarted := false
		startHeader := func() {
			if headerStarted {
				return
			}
			var err error
			cursor.Hide()
			headerArea, err = pterm.DefaultArea.WithRemoveWhenDone(true).Start()
			if err != nil {
				cursor.Show()
				return
			}
			headerStarted = true
			headerSpinWG.Add(1)
			go func() {
				defer headerSpinWG.Done()
				t := time.NewTicker(120 * time.Millisecond)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						headerIdx++
						headerArea.Update(fmt.Sprintf("%s Comparing schema", headerFrames[headerIdx%len(headerFrames)]))
					case <-headerSpinStop:
						return
					}
				}
			}()
		}
		stopHeader := func() {
			if !headerStarted {
				return
			}
			close(headerSpinStop)
			headerSpinWG.Wait()
			if headerArea != nil {
				headerArea.Stop()
				headerArea = nil
			}
			headerSpinStop = make(chan struct{})
			headerStarted = false
			cursor.Show()
		}

		// Open DB pool and capture the snapshot before starting the stream UI
		pool, err := pgxpool.New(cmd.Context(), normalizedDSN)
		if err != nil {
			pterm.Printf("❌ Failed to connect to database\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}
		defer pool.Close()

		inspector := schema.NewInspector(pool)
		snap, err := inspector.Snapshot(cmd.Context())
		if err != nil {
			pterm.Printf("❌ Failed to inspect database schema\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}

		// Apply schema filter from config, if any
		if cfg, err := config.Load(); err == nil {
			snap = schema.FilterSchemas(snap, cfg.Snapshot.Schemas)
		}
		if snap.TableCount() == 0 {
			fmt.Println("⚠️  No tables found to compare.")
			return nil
		}

		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Snapshot:   ") +
			fmt.Sprintf("%d table(s), %d column(s), fingerprint %s", snap.TableCount(), snap.ColumnCount(), shortFingerprint(snap.Fingerprint())))
		pterm.Println()

		if err := br.SendSnapshot(cmd.Context(), snap); err != nil {
			pterm.Printf("❌ Failed to upload snapshot\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}

		startHeader()

		state := drift.NewScanState()
		render := drift.NewRenderer()

		// Objects by qualified name, for serving detail requests
		objects := make(map[string]schema.Table, len(snap.Tables))
		for _, t := range snap.Tables {
			objects[t.QualifiedName()] = t
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var streamErr error
		var streamClosed bool
		var scanCompleted bool

		doneEvents := make(chan struct{})
		go func() {
			defer close(doneEvents)
			for ev := range br.Events() {
				switch drift.BackendEventType(ev.Type) {
				case drift.BackendEventStreamError:
					streamErr = errors.New(ev.Message)
					stopHeader()
					logging.PresentStreamError(ev.Message)
					cancel()
					return
				case drift.BackendEventStreamClosed:
					streamClosed = true
					stopHeader()
					cancel()
					return
				case drift.BackendEventScanCompleted:
					scanCompleted = true
					state.SettleAllActive()
					stopHeader()
					_ = br.Close(cmd.Context())
					cancel()
					return
				case drift.BackendEventSessionReady:
					// informational, ignored
				case drift.BackendEventScanAccepted, drift.BackendEventBaselineSaved:
					objs, _ := drift.ExtractObjectsAndFingerprint(ev.Message)
					if len(objs) > 0 {
						state.AddExpected(objs)
						stopHeader()
						render.ShowScanScope(objs)
						startHeader()
					}
				case drift.BackendEventObjectStarted:
					name, _ := drift.ParseFindings(ev.Message)
					if name != "" {
						state.StartObject(name)
					}
				case drift.BackendEventObjectClean:
					name, _ := drift.ParseFindings(ev.Message)
					if name != "" {
						state.MarkClean(name)
						stopHeader()
						render.Render(drift.Event{Type: drift.EventObjectStatus, ObjectName: name, ObjectState: "clean"})
						startHeader()
					}
				case drift.BackendEventObjectDrifted:
					name, findings := drift.ParseFindings(ev.Message)
					if name != "" {
						state.MarkDrifted(name, findings)
						stopHeader()
						render.Render(drift.Event{Type: drift.EventObjectStatus, ObjectName: name, ObjectState: "drifted"})
						render.RenderFindings(findings)
						startHeader()
					}
				case drift.BackendEventObjectFailed:
					name, _ := drift.ParseFindings(ev.Message)
					if name != "" {
						state.FailObject(name, ev.Message)
						stopHeader()
						render.Render(drift.Event{Type: drift.EventObjectStatus, ObjectName: name, ObjectState: "error"})
						startHeader()
					}
				}
			}
		}()

		// Worker pool serving detail requests from the captured snapshot
		concurrency := 4
		var wg sync.WaitGroup
		wg.Add(concurrency)
		for i := 0; i < concurrency; i++ {
			go func() {
				defer wg.Done()
				for task := range br.Tasks() {
					serveDetailTask(ctx, br, objects, task)
				}
			}()
		}
		doneTasks := make(chan struct{})
		go func() { wg.Wait(); close(doneTasks) }()

		<-doneEvents
		<-doneTasks

		stopHeader()
		elapsed := time.Since(startAt).Round(time.Millisecond)
		if streamErr != nil {
			return streamErr
		}
		if scanCompleted || streamClosed {
			render.RenderSummary(state, elapsed)
			if state.HasDrift() {
				return errors.New("schema drift detected")
			}
			return nil
		}
		pterm.Warning.Printf("Connection closed before the scan finished after %s :(\n", elapsed)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVarP(&verboseSnapshot, "verbose", "v", false, "Enable verbose debug output")
}

// serveDetailTask answers a backend detail request from the local snapshot.
func serveDetailTask(ctx context.Context, br bbridge.Bridge, objects map[string]schema.Table, task model.DetailTask) {
	table, ok := objects[task.Object]
	if !ok {
		_ = drift.SendDetailError(ctx, br.SendDetailResponse, task.RequestID, "unknown object: "+task.Object)
		return
	}

	var detail any
	switch task.Aspect {
	case "columns":
		detail = table.Columns
	case "primary_key":
		detail = table.PrimaryKey
	default:
		detail = table
	}
	_ = drift.SendObjectDetail(ctx, br.SendDetailResponse, task.RequestID, detail)
}

// deriveDBName extracts the database name from a PostgreSQL DSN URL.
// It parses the DSN and returns the database name from the path component.
// Returns an empty string if the DSN cannot be parsed (fail-fast approach with no defaults).
func deriveDBName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	return p
}
