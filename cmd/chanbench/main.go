// Command chanbench drives every scenario this module's packages are
// built to satisfy: unbuffered rendezvous, buffered FIFO delivery, a
// close broadcast to many waiters, select fairness across several ready
// channels, a canceling context tree, a timer, a pipe and a wait group.
// It reports elapsed time and the fairness counters rtstat collects.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/joeycumines/goconc/channel"
	"github.com/joeycumines/goconc/gocontext"
	"github.com/joeycumines/goconc/gopipe"
	"github.com/joeycumines/goconc/gotimer"
	"github.com/joeycumines/goconc/rtlog"
	"github.com/joeycumines/goconc/rtstat"
	"github.com/joeycumines/goconc/waitgroup"
)

func main() {
	rtlog.SetLogger(rtlog.NewDefaultLogger(rtlog.LevelInfo))

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		rtlog.Info(`runtime`, fmt.Sprintf(format, args...))
	})); err != nil {
		rtlog.Warn(`runtime`, `failed to set GOMAXPROCS from cgroup limits`, rtlog.WithError(err))
	}

	scenarioRendezvous()
	scenarioBufferedFIFO()
	scenarioCloseBroadcast()
	scenarioSelectFairness()
	scenarioContextCascade()
	scenarioTimer()
	scenarioPipe()
	scenarioWaitGroup()
}

func scenarioRendezvous() {
	ch := channel.NewChan[int](0)
	var g errgroup.Group
	g.Go(func() error {
		ch.Send(1)
		return nil
	})
	v, ok := ch.Recv()
	_ = g.Wait()
	fmt.Fprintf(os.Stdout, "rendezvous: value=%d ok=%v\n", v, ok)
}

func scenarioBufferedFIFO() {
	ch := channel.NewChan[int](4)
	for i := 0; i < 4; i++ {
		ch.Send(i)
	}
	var got []int
	for i := 0; i < 4; i++ {
		v, _ := ch.Recv()
		got = append(got, v)
	}
	fmt.Fprintf(os.Stdout, "buffered FIFO order: %v\n", got)
}

func scenarioCloseBroadcast() {
	ch := channel.NewChan[int](0)
	var g errgroup.Group
	woken := make([]bool, 8)
	for i := range woken {
		i := i
		g.Go(func() error {
			_, ok := ch.Recv()
			woken[i] = !ok
			return nil
		})
	}
	time.Sleep(time.Millisecond * 20)
	ch.Close()
	_ = g.Wait()
	fmt.Fprintf(os.Stdout, "close broadcast: woken=%v\n", woken)
}

func scenarioSelectFairness() {
	var stats rtstat.Stats
	const n = 3
	chans := make([]*channel.Chan[int], n)
	for i := range chans {
		chans[i] = channel.NewChan[int](1)
		chans[i].Send(i)
	}
	for r := 0; r < 300; r++ {
		slots := make([]channel.RecvSlot[int], n)
		cases := make([]channel.SelectCase, n)
		for i := range chans {
			cases[i] = channel.RecvCase(chans[i], &slots[i])
		}
		idx := channel.SelectInstrumented(&stats, cases...)
		chans[idx].Send(slots[idx].Value)
	}
	fmt.Fprintf(os.Stdout, "select fairness case wins: %v\n", stats.Snapshot().CaseWins)
}

func scenarioContextCascade() {
	parent, cancel := gocontext.WithCancel(gocontext.Background())
	child, cancelChild := gocontext.WithCancel(parent)
	defer cancelChild()

	cancel()
	_, ok := child.Done().Recv()
	fmt.Fprintf(os.Stdout, "context cascade: child done ok=%v err=%v\n", ok, child.Err())
}

func scenarioTimer() {
	start := time.Now()
	timer := gotimer.NewTimer(time.Millisecond * 30)
	<-chanFromTimer(timer)
	fmt.Fprintf(os.Stdout, "timer: fired after %v\n", time.Since(start))
}

func chanFromTimer(t *gotimer.Timer) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		t.C.Recv()
		close(out)
	}()
	return out
}

func scenarioPipe() {
	r, w := gopipe.Pipe()
	go func() {
		_, _ = w.Write([]byte(`chanbench`))
		_ = w.Close()
	}()
	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	fmt.Fprintf(os.Stdout, "pipe: read %q\n", string(buf[:n]))
}

func scenarioWaitGroup() {
	var wg waitgroup.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		go wg.Done()
	}
	wg.Wait()
	fmt.Fprintln(os.Stdout, "waitgroup: all five tasks completed")
}
