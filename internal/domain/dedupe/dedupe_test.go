package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/numerox/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory deduper", t, func() {
		d := dedupe.NewInMemory()
		So(d.Size(), ShouldEqual, 0)

		Convey("A new key is acquired", func() {
			So(d.Acquire(ctx, "k1"), ShouldEqual, dedupe.New)
			So(d.Size(), ShouldEqual, 1)

			Convey("and is pending until committed", func() {
				So(d.Acquire(ctx, "k1"), ShouldEqual, dedupe.Pending)
				d.Commit(ctx, "k1")
				So(d.Acquire(ctx, "k1"), ShouldEqual, dedupe.Done)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("and can be acquired again after Unrecord", func() {
				d.Unrecord(ctx, "k1")
				So(d.Size(), ShouldEqual, 0)
				So(d.Acquire(ctx, "k1"), ShouldEqual, dedupe.New)
			})
		})

		Convey("Unrecord and Commit of an unknown key are no-ops", func() {
			d.Acquire(ctx, "k1")
			d.Unrecord(ctx, "k2")
			d.Commit(ctx, "k3")
			So(d.Size(), ShouldEqual, 1)
			So(d.Acquire(ctx, "k3"), ShouldEqual, dedupe.New)
		})
	})

	Convey("Given a deduper bounded to three committed keys", t, func() {
		d := dedupe.NewInMemory(dedupe.WithMaxKeys(3))
		for _, k := range []string{"a", "b", "c", "d"} {
			So(d.Acquire(ctx, k), ShouldEqual, dedupe.New)
			d.Commit(ctx, k)
		}

		Convey("The oldest key is evicted first", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.Acquire(ctx, "d"), ShouldEqual, dedupe.Done)
			So(d.Acquire(ctx, "c"), ShouldEqual, dedupe.Done)
			So(d.Acquire(ctx, "a"), ShouldEqual, dedupe.New)
		})
	})

	Convey("Given a bounded deduper full of pending keys", t, func() {
		d := dedupe.NewInMemory(dedupe.WithMaxKeys(2))
		d.Acquire(ctx, "a")
		d.Acquire(ctx, "b")
		So(d.Acquire(ctx, "c"), ShouldEqual, dedupe.New)

		Convey("No pending key is evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.Acquire(ctx, "a"), ShouldEqual, dedupe.Pending)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemory(dedupe.WithMaxKeys(0))
		for i := range 2*dedupe.DefaultMaxKeys + 1 {
			d.Acquire(ctx, fmt.Sprint(i))
		}
		So(d.Size(), ShouldEqual, 2*dedupe.DefaultMaxKeys+1)
	})
}

func TestInMemoryConcurrent(t *testing.T) {
	Convey("Given many goroutines racing on the same key", t, func() {
		d := dedupe.NewInMemory()
		var owners atomic.Int32
		var wg sync.WaitGroup
		for range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if d.Acquire(context.Background(), "same") == dedupe.New {
					owners.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Exactly one of them owns it", func() {
			So(owners.Load(), ShouldEqual, int32(1))
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
