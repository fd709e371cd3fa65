// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/coop/mpsc"
	"code.hybscloud.com/kont"
	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

var (
	runProducers  int
	runMessages   int
	runTasks      int
	runYields     int
	runBudget     int
	runReportPath string
	runVerbose    bool
)

func init() {
	runCmd.Flags().IntVarP(&runProducers, "producers", "p", 0, "number of producer goroutines")
	runCmd.Flags().IntVarP(&runMessages, "messages", "n", 0, "messages sent by each producer")
	runCmd.Flags().IntVarP(&runTasks, "tasks", "t", 0, "number of spawned yielding tasks")
	runCmd.Flags().IntVar(&runYields, "yields", 0, "yields per spawned task")
	runCmd.Flags().IntVar(&runBudget, "budget", 0, "poll budget per task step (-1 disables it)")
	runCmd.Flags().StringVarP(&runReportPath, "report", "o", "", "write a msgpack report to this file")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log runtime diagnostics to stderr")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the producer/consumer workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		w, err := loadWorkload(path)
		if err != nil {
			return err
		}
		applyRunFlags(cmd, &w)
		if err := w.validate(); err != nil {
			return err
		}

		cfg := w.coopConfig()
		if runVerbose {
			cfg.Logger = coop.NewDefaultLogger()
		}
		rep, err := runWorkload(cmd.Context(), w, cfg)
		if err != nil {
			return err
		}

		printReport(cmd.OutOrStdout(), rep)
		if runReportPath != "" {
			if err := writeReport(runReportPath, rep); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		if rep.OutOfOrder != 0 || rep.Received != rep.Sent {
			return fmt.Errorf("channel lost ordering: %d out of order, %d of %d received",
				rep.OutOfOrder, rep.Received, rep.Sent)
		}
		return nil
	},
}

func applyRunFlags(cmd *cobra.Command, w *workload) {
	flags := cmd.Flags()
	if flags.Changed("producers") {
		w.Producers = runProducers
	}
	if flags.Changed("messages") {
		w.Messages = runMessages
	}
	if flags.Changed("tasks") {
		w.Tasks = runTasks
	}
	if flags.Changed("yields") {
		w.Yields = runYields
	}
	if flags.Changed("budget") {
		w.Runtime.Budget = runBudget
	}
}

type message struct {
	producer int
	seq      int
}

// tally folds received messages and tracks per-producer order.
type tally struct {
	received   int
	outOfOrder int
	next       []int
}

func (t tally) add(m message) tally {
	if t.next[m.producer] != m.seq {
		t.outOfOrder++
	}
	t.next[m.producer] = m.seq + 1
	t.received++
	return t
}

// report is the outcome of one run. It is also the msgpack file layout.
type report struct {
	Producers     int           `msgpack:"producers"`
	Sent          uint64        `msgpack:"sent"`
	Received      uint64        `msgpack:"received"`
	OutOfOrder    uint64        `msgpack:"out_of_order"`
	TaskSteps     uint64        `msgpack:"task_steps"`
	Elapsed       time.Duration `msgpack:"elapsed"`
	Stats         coop.Stats    `msgpack:"stats"`
	BlocksAlloc   uint64        `msgpack:"blocks_allocated"`
	BlocksReused  uint64        `msgpack:"blocks_recycled"`
	FinishedAtUTC time.Time     `msgpack:"finished_at"`
}

// yielder counts to n, yielding to the scheduler between steps.
func yielder(n int) kont.Eff[int] {
	return coop.Loop(0, func(i int) kont.Eff[kont.Either[int, int]] {
		if i == n {
			return kont.Pure(kont.Right[int, int](i))
		}
		return coop.AwaitThen(coop.YieldNow(), kont.Pure(kont.Left[int, int](i+1)))
	})
}

func runWorkload(ctx context.Context, w workload, cfg coop.Config) (report, error) {
	rt, err := coop.New(cfg)
	if err != nil {
		return report{}, err
	}
	defer rt.Close()

	start := time.Now()

	handles := make([]*coop.JoinHandle[int], 0, w.Tasks)
	for range w.Tasks {
		handles = append(handles, coop.Spawn(rt, coop.FromEff(yielder(w.Yields))))
	}

	tx, rx := mpsc.UnboundedChannel[message]()
	senders := make([]*mpsc.Sender[message], w.Producers)
	for i := range senders {
		senders[i] = tx.Clone()
	}
	tx.Close()

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range senders {
		g.Go(func() error {
			defer s.Close()
			for seq := range w.Messages {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := s.Send(message{producer: i, seq: seq}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	t, err := coop.Exec(rt, mpsc.Drain(rx, tally{next: make([]int, w.Producers)}, tally.add))
	if err != nil {
		rx.Close()
		_ = g.Wait()
		return report{}, err
	}
	if err := g.Wait(); err != nil {
		return report{}, err
	}

	steps := 0
	for _, h := range handles {
		n, err := coop.BlockOn(rt, h)
		h.Drop()
		if err != nil {
			return report{}, fmt.Errorf("task %d: %w", h.ID(), err)
		}
		steps += n
	}

	elapsed := time.Since(start)
	rep := report{
		Producers:     w.Producers,
		Elapsed:       elapsed,
		Stats:         rt.Stats(),
		FinishedAtUTC: time.Now().UTC(),
	}
	rep.BlocksAlloc, rep.BlocksReused = rx.BlockStats()
	if rep.Sent, err = safecast.Conv[uint64](w.Producers * w.Messages); err != nil {
		return report{}, err
	}
	if rep.Received, err = safecast.Conv[uint64](t.received); err != nil {
		return report{}, err
	}
	if rep.OutOfOrder, err = safecast.Conv[uint64](t.outOfOrder); err != nil {
		return report{}, err
	}
	if rep.TaskSteps, err = safecast.Conv[uint64](steps); err != nil {
		return report{}, err
	}
	return rep, nil
}

var (
	labelColor = color.New(color.FgCyan)
	valueColor = color.New(color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	badColor   = color.New(color.FgRed, color.Bold)
)

func printReport(out io.Writer, rep report) {
	status := okColor.Sprint("ok")
	if rep.OutOfOrder != 0 || rep.Received != rep.Sent {
		status = badColor.Sprint("FAILED")
	}
	line := func(label string, value any) {
		fmt.Fprintf(out, "%s %s\n", labelColor.Sprintf("%-18s", label), valueColor.Sprint(value))
	}
	fmt.Fprintf(out, "coopbench %s\n", status)
	line("producers", rep.Producers)
	line("messages", fmt.Sprintf("%d/%d", rep.Received, rep.Sent))
	line("out of order", rep.OutOfOrder)
	line("task steps", rep.TaskSteps)
	line("spawned", rep.Stats.Spawned)
	line("polled", rep.Stats.Polled)
	line("completed", rep.Stats.Completed)
	line("released", rep.Stats.Released)
	line("injected", fmt.Sprintf("%d (%d spilled)", rep.Stats.Injected, rep.Stats.Spilled))
	line("parked", rep.Stats.Parked)
	line("blocks", fmt.Sprintf("%d allocated, %d recycled", rep.BlocksAlloc, rep.BlocksReused))
	line("elapsed", rep.Elapsed.Round(time.Microsecond))
}

func writeReport(path string, rep report) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".coopbench-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(rep); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func readReport(path string) (report, error) {
	var rep report
	f, err := os.Open(path)
	if err != nil {
		return rep, err
	}
	defer f.Close()
	err = msgpack.NewDecoder(f).Decode(&rep)
	return rep, err
}
