package lock_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pathwise/matchengine/adapters/lock"
)

func TestKeyedMutex(t *testing.T) {
	Convey("Given a keyed mutex", t, func() {
		ctx := context.Background()
		km := lock.NewKeyedMutex()

		Convey("Acquire and release round-trips for a key", func() {
			release, err := km.Acquire(ctx, "job-a")
			So(err, ShouldBeNil)
			release()

			release, err = km.Acquire(ctx, "job-a")
			So(err, ShouldBeNil)
			release()
		})

		Convey("Different keys do not block one another", func() {
			releaseA, err := km.Acquire(ctx, "job-a")
			So(err, ShouldBeNil)
			defer releaseA()

			releaseB, err := km.Acquire(ctx, "job-b")
			So(err, ShouldBeNil)
			releaseB()
		})

		Convey("Holders of the same key are mutually exclusive", func() {
			const workers = 8
			const iterations = 200

			counter := 0
			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < iterations; j++ {
						release, err := km.Acquire(ctx, "shared")
						if err != nil {
							return
						}
						counter++
						release()
					}
				}()
			}
			wg.Wait()

			So(counter, ShouldEqual, workers*iterations)
		})
	})
}
