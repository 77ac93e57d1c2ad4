package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	service "github.com/okian/ptt/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func writeProfiles(t *testing.T, n int) []string {
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("p%02d.json", i))
		doc := fmt.Sprintf(`{"player":{"username":"user%d"},"best30":[{"songTitle":"s","difficulty":"FTR","score":9800000,"constant":%d}],"recent10":[]}`, i, 8+i%4)
		if err := os.WriteFile(paths[i], []byte(doc), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestService_Batch(t *testing.T) {
	Convey("Given many profile files and a broken one", t, func() {
		paths := writeProfiles(t, 12)
		paths = append(paths[:5], append([]string{filepath.Join(t.TempDir(), "missing.json")}, paths[5:]...)...)

		svc, _ := newService(service.WithWorkerCount(4), service.WithQueueSize(2))

		Convey("When evaluating them as a batch", func() {
			results := svc.Batch(context.Background(), paths)

			Convey("Then results come back in input order", func() {
				So(results, ShouldHaveLength, len(paths))
				for i, r := range results {
					So(r.Path, ShouldEqual, paths[i])
				}
				So(results[0].Report.Player, ShouldEqual, "user0")
				So(results[6].Report.Player, ShouldEqual, "user5")
			})

			Convey("And only the broken file failed", func() {
				for i, r := range results {
					if i == 5 {
						So(r.Err, ShouldNotBeNil)
						So(r.Report, ShouldBeNil)
						continue
					}
					So(r.Err, ShouldBeNil)
				}
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		paths := writeProfiles(t, 3)
		svc, _ := newService(service.WithWorkerCount(1))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := svc.Batch(ctx, paths)

		Convey("Then every slot is filled", func() {
			So(results, ShouldHaveLength, 3)
			for i, r := range results {
				So(r.Path, ShouldEqual, paths[i])
				if r.Report == nil {
					So(r.Err, ShouldNotBeNil)
				}
			}
		})
	})

	Convey("Given no files", t, func() {
		svc, _ := newService()
		So(svc.Batch(context.Background(), nil), ShouldBeEmpty)
	})
}
