package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/shotform/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When an analysis id is recorded twice", func() {
			d := dedupe.NewInMemoryDeduper()
			first := d.SeenAndRecord(ctx, "analysis-1")
			second := d.SeenAndRecord(ctx, "analysis-1")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a recorded id is unrecorded", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "analysis-1")
			d.Unrecord(ctx, "analysis-1")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be submitted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "analysis-1"), ShouldBeFalse)
			})
		})

		Convey("When the bound is reached", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("analysis-%d", i))
			}

			Convey("Then the oldest id is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "analysis-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "analysis-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "analysis-1"), ShouldBeFalse)
			})
		})

		Convey("When unbounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("analysis-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "analysis-0"), ShouldBeTrue)
			})
		})

		Convey("When many goroutines race on the same ids", func() {
			d := dedupe.NewInMemoryDeduper()
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fresh int
			)
			for g := 0; g < 16; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("analysis-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then every id is recorded exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
