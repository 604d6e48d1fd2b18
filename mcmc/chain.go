package mcmc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Chain is the result of one sampler run. Draws[i] holds the
// parameter values after step i; the starting point is stored
// separately and is not a draw.
type Chain struct {
	ID       int
	Seed     uint64
	Names    []string
	Start    []float64
	Draws    [][]float64
	LogPost  []float64
	Accepted int
	// Scale is the proposal scale used for sampling (after tuning).
	Scale float64
}

func newChain(id int, seed uint64, names []string, start []float64, n int) *Chain {
	return &Chain{
		ID:      id,
		Seed:    seed,
		Names:   names,
		Start:   start,
		Draws:   make([][]float64, 0, n),
		LogPost: make([]float64, 0, n),
	}
}

// Len returns the number of draws.
func (c *Chain) Len() int {
	return len(c.Draws)
}

// AcceptanceRate returns the fraction of accepted proposals.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.Draws) == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(len(c.Draws))
}

// Index returns the position of the named parameter or -1.
func (c *Chain) Index(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns draws of a single parameter starting from draw
// from.
func (c *Chain) Column(name string, from int) ([]float64, error) {
	k := c.Index(name)
	if k < 0 {
		return nil, fmt.Errorf("unknown parameter name: %s", name)
	}
	if from < 0 || from > len(c.Draws) {
		return nil, fmt.Errorf("%w: draw %d out of range [0, %d]", ErrInvalidConfiguration, from, len(c.Draws))
	}
	col := make([]float64, 0, len(c.Draws)-from)
	for _, d := range c.Draws[from:] {
		col = append(col, d[k])
	}
	return col, nil
}

// WriteTraceHeader writes the column names of the trace.
func WriteTraceHeader(w io.Writer, names []string) error {
	s := "chain\titeration\tlogpost"
	for _, n := range names {
		s += "\t" + n
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

// WriteTrace writes all the draws as tab separated lines.
func (c *Chain) WriteTrace(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, d := range c.Draws {
		bw.WriteString(strconv.Itoa(c.ID))
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(i))
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatFloat(c.LogPost[i], 'f', 6, 64))
		for _, v := range d {
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
