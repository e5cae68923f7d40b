package analytics_test

import (
	"fmt"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
)

// eraDataset builds eras era1..eraN with two rows each: "<era>a" with
// target 1 and "<era>b" with target 0.
func eraDataset(n int) *model.Dataset {
	var rows []model.Row
	for i := 1; i <= n; i++ {
		era := fmt.Sprintf("era%d", i)
		rows = append(rows,
			model.Row{ID: era + "a", Era: era, Region: "validation", Target: 1},
			model.Row{ID: era + "b", Era: era, Region: "validation", Target: 0},
		)
	}
	return model.NewDataset(rows)
}

// eraBatch turns per-era (positive, negative) predictions into a batch over
// the rows of eraDataset.
func eraBatch(pairs ...[2]float64) prediction.Batch {
	b := make(prediction.Batch, 2*len(pairs))
	for i, p := range pairs {
		era := fmt.Sprintf("era%d", i+1)
		b[era+"a"] = p[0]
		b[era+"b"] = p[1]
	}
	return b
}

func mustTable(batches map[string]prediction.Batch, order ...string) *prediction.Table {
	t := prediction.New()
	for _, name := range order {
		if err := t.Insert(name, batches[name]); err != nil {
			panic(err)
		}
	}
	return t
}
