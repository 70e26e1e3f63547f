// Package siesta reads output files of the Siesta DFT code.
package siesta

import (
	"fmt"

	"github.com/simonhull/sile/internal/base"
	"github.com/simonhull/sile/internal/info"
	"github.com/simonhull/sile/internal/registry"
	"github.com/simonhull/sile/internal/table"
	"github.com/simonhull/sile/internal/types"
)

// timesAttrs are declared in the order they appear in the file header.
var timesAttrs = []info.Attr{
	info.New("processors", `^timer: Number of nodes`, info.Int),
	info.New("threads", `^timer: Number of threads per node`, info.Int,
		info.WithDefault(int64(1)), info.NotFound(info.Info)),
	info.New("processor_reference", `^timer: Times refer to node`, info.Int),
	info.New("wall_clock", `^timer: Total elapsed wall-clock`, info.Float),
}

// timesLayout describes the "Program" table:
//
//	Program  Calls  Prg.com  Prg.com  Prg.tot  Prg.tot  Nod.avg  ...
//	  (sec)    (%)   (sec)     (%)     (sec)
//
// The header is a blank line, five timer lines and four more lines of the
// CPU times block.
var timesLayout = table.Layout{
	Preamble:  10,
	Section:   "Program",
	SubHeader: 1,
	MinFields: 2,
	Sentinels: []string{"MPI"},
	KeyAxis:   "routine",
	KeyIndex:  0,
	Index:     "parallel",
	Columns: []table.Column{
		{Name: "calls", Index: 1, Kind: types.KindInt},
		{Name: "comm", Index: 2, Kind: types.KindFloat},
		{Name: "time", Index: 4, Kind: types.KindFloat},
		{Name: "imbalance", Index: 6, Kind: types.KindFloat},
	},
}

// times implements base.Sile and base.DataReader for Siesta TIMES files.
type times struct {
	*base.Base
}

func newTimes(b *base.Base) (base.Sile, error) {
	b.Bind(timesAttrs)
	return &times{Base: b}, nil
}

// ReadData returns the per-routine timings. Coordinates processors and
// threads form the "parallel" index; values are in seconds. The remaining
// header attributes are left for Info.
func (t *times) ReadData() (*types.Record, error) {
	if err := t.ResolveInfo("processors", "threads"); err != nil {
		return nil, fmt.Errorf("read times header: %w", err)
	}

	procs, err := info.Value[int64](t.Attrs(), "processors")
	if err != nil {
		return nil, err
	}
	threads, err := info.Value[int64](t.Attrs(), "threads")
	if err != nil {
		return nil, err
	}

	rec, err := timesLayout.Parse(t.Handle(), []types.Coord{
		{Name: "processors", Value: procs},
		{Name: "threads", Value: threads},
	}, map[string]string{
		"file": t.Path(),
		"unit": "s",
	})
	if err != nil {
		return nil, fmt.Errorf("read times data: %w", err)
	}

	if rec.Len() == 0 {
		if err := t.Warn("data", "no routines in Program section", t.Handle().Line()); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func init() {
	registry.Add("times", "siesta.times", newTimes, true)
	registry.AddTag("siesta.times", "siesta.times", newTimes, true)
}
