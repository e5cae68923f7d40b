package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/numerox/internal/adapters/repository"
	service "github.com/okian/numerox/internal/app"
	"github.com/okian/numerox/internal/config"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFixtures(dir string) error {
	data := "id,era,region,target\n" +
		"e1a,e1,validation,1\ne1b,e1,validation,0\n" +
		"e2a,e2,validation,1\ne2b,e2,validation,0\n"
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte(data), 0o600); err != nil {
		return err
	}
	preds := map[string]prediction.Batch{
		"logistic": {"e1a": 0.7, "e1b": 0.3, "e2a": 0.6, "e2b": 0.45},
		"xgboost":  {"e1a": 0.8, "e1b": 0.35, "e2a": 0.55, "e2b": 0.5},
	}
	for name, b := range preds {
		t, err := prediction.FromBatch("ignored", b)
		if err != nil {
			return err
		}
		if err := repository.Save(filepath.Join(dir, name+".pred"), t); err != nil {
			return err
		}
	}
	return nil
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given archives and a dataset on disk", t, func() {
		dir := t.TempDir()
		So(writeFixtures(dir), ShouldBeNil)

		cfg := config.New()
		cfg.PredictionDir = dir
		cfg.DataPath = filepath.Join(dir, "data.csv")
		cfg.Compress = false

		svc := service.New(append(service.FromConfig(cfg), service.WithLogger(logger.Nop()))...)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then every archive becomes a model named after its file", func() {
				models := svc.Models(ctx)
				So(len(models), ShouldEqual, 2)
				So(models[0].Name, ShouldEqual, "logistic")
				So(models[1].Name, ShouldEqual, "xgboost")
				So(svc.Stats()["datasetRows"], ShouldEqual, 4)
				So(svc.Stats()["eras"], ShouldEqual, 2)
			})

			Convey("Then the leaderboard covers both models", func() {
				report, err := svc.Performance(ctx, "consis")
				So(err, ShouldBeNil)
				So(len(report.Rows), ShouldEqual, 2)
				So(report.Eras, ShouldResemble, []string{"e1", "e2"})
			})

			Convey("Then the table can be saved and reloaded", func() {
				path := filepath.Join(dir, "all.json")
				So(svc.Save(ctx, path), ShouldBeNil)
				back, err := repository.Load(path)
				So(err, ShouldBeNil)
				So(back.Names(), ShouldResemble, []string{"logistic", "xgboost"})
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with a dataset", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.Nop()), service.WithDataset(twoEraData()))
		So(svc.Insert(ctx, "base", twoEraIDs, []float64{0.6, 0.4, 0.6, 0.4}), ShouldBeNil)

		Convey("When writers and readers run at once", func() {
			const writers = 8
			var wg sync.WaitGroup
			errs := make(chan error, writers*2)
			for i := range writers {
				wg.Add(2)
				go func() {
					defer wg.Done()
					p := 0.5 + float64(i)/100
					errs <- svc.Insert(ctx, fmt.Sprintf("m%d", i), twoEraIDs, []float64{p, 1 - p, p, 1 - p})
				}()
				go func() {
					defer wg.Done()
					_, err := svc.Performance(ctx, "")
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then nothing fails and every insert lands", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(len(svc.Models(ctx)), ShouldEqual, writers+1)
			})
		})
	})
}
