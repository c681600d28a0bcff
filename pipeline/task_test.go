package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll(t *testing.T) {
	fs := afero.NewMemMapFs()

	var inputs []string
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("/in/book%d.xlsx", i)
		createZip(t, fs, name, withEntries(testEntry{name: "xl/media/image1.png", data: translucentPNG(t)}))
		inputs = append(inputs, name)
	}
	inputs = append(inputs, "/in/missing.xlsx")

	rec := &recorder{}
	outcomes := RunAll(context.Background(), New(rec, rec, func(opts *Options) {
		opts.Fs = fs
	}), inputs, 2)

	require.Len(t, outcomes, len(inputs))
	for i, out := range outcomes {
		assert.Equal(t, inputs[i], out.Input)
	}

	for _, out := range outcomes[:5] {
		assert.Truef(t, out.Succeeded(), "%s: %v", out.Input, out.Err)
	}
	assert.False(t, outcomes[5].Succeeded())
	assert.Equal(t, KindInputNotFound, outcomes[5].Err.Kind)
}

func TestRunAllFunc_MaxConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	inputs := []string{"a", "b", "c", "d", "e", "f"}

	outcomes := RunAllFunc(context.Background(), inputs, 2, func(_ context.Context, i int, input string) Outcome {
		n := running.Add(1)
		defer running.Add(-1)

		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		return Outcome{Input: fmt.Sprintf("%d:%s", i, input), State: Done}
	})

	require.Len(t, outcomes, len(inputs))
	for i, out := range outcomes {
		assert.Equal(t, fmt.Sprintf("%d:%s", i, inputs[i]), out.Input)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunAll_Empty(t *testing.T) {
	assert.Empty(t, RunAll(context.Background(), New(nil, nil), nil, 0))
}
