package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bannerd/internal/adapters/repository"
	service "bannerd/internal/app"
	"bannerd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When creating a banner with only the required fields", func() {
			b, err := svc.Create(ctx, repository.CreateFields{
				ImageURL: "https://cdn.example.com/a.png",
				ClickURL: "https://example.com/a",
			})

			Convey("Then defaults should be applied", func() {
				So(err, ShouldBeNil)
				So(b.ID, ShouldNotBeEmpty)
				So(b.Title, ShouldEqual, "New Banner")
				So(b.Weight, ShouldEqual, 1)
				So(b.Active, ShouldBeTrue)
			})

			Convey("And it should appear in the active listing", func() {
				So(err, ShouldBeNil)

				banners, err := svc.ListActive(ctx)
				So(err, ShouldBeNil)
				So(len(banners), ShouldEqual, 1)
				So(banners[0].ID, ShouldEqual, b.ID)
			})
		})

		Convey("When creating a banner without an image URL", func() {
			_, err := svc.Create(ctx, repository.CreateFields{
				ClickURL: "https://example.com/a",
			})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, repository.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When updating an existing banner", func() {
			b, err := svc.Create(ctx, repository.CreateFields{
				ImageURL: "https://cdn.example.com/b.png",
				ClickURL: "https://example.com/b",
				Title:    "Banner B",
			})
			So(err, ShouldBeNil)

			weight := 5
			updated, err := svc.Update(ctx, b.ID, repository.UpdateFields{Weight: &weight})

			Convey("Then the new weight should be stored", func() {
				So(err, ShouldBeNil)
				So(updated.Weight, ShouldEqual, 5)
				So(updated.Title, ShouldEqual, "Banner B")
			})
		})

		Convey("When updating an unknown banner", func() {
			title := "nope"
			_, err := svc.Update(ctx, "missing", repository.UpdateFields{Title: &title})

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When deactivating a banner", func() {
			b, err := svc.Create(ctx, repository.CreateFields{
				ImageURL: "https://cdn.example.com/c.png",
				ClickURL: "https://example.com/c",
			})
			So(err, ShouldBeNil)

			got, err := svc.Deactivate(ctx, b.ID)
			So(err, ShouldBeNil)
			So(got.Active, ShouldBeFalse)

			Convey("Then it should leave the active listing", func() {
				banners, err := svc.ListActive(ctx)
				So(err, ShouldBeNil)
				So(len(banners), ShouldEqual, 0)
			})

			Convey("And it should still appear in the analytics snapshot", func() {
				rows, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].ID, ShouldEqual, b.ID)
				So(rows[0].Active, ShouldBeFalse)
			})
		})
	})
}

func TestService_Interactions(t *testing.T) {
	Convey("Given a started service with one banner", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		b, err := svc.Create(ctx, repository.CreateFields{
			ImageURL: "https://cdn.example.com/a.png",
			ClickURL: "https://example.com/a",
			Title:    "Banner A",
		})
		So(err, ShouldBeNil)

		Convey("When recording impressions and clicks", func() {
			first, err := svc.RecordImpression(ctx, b.ID)
			So(err, ShouldBeNil)
			So(first, ShouldEqual, 1)

			second, err := svc.RecordImpression(ctx, b.ID)
			So(err, ShouldBeNil)
			So(second, ShouldEqual, 2)

			clicks, err := svc.RecordClick(ctx, b.ID)
			So(err, ShouldBeNil)
			So(clicks, ShouldEqual, 1)

			Convey("Then the snapshot should aggregate them", func() {
				rows, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].ID, ShouldEqual, b.ID)
				So(rows[0].Title, ShouldEqual, "Banner A")
				So(rows[0].Impressions, ShouldEqual, 2)
				So(rows[0].Clicks, ShouldEqual, 1)
				So(rows[0].CTR, ShouldEqual, "50.00%")
			})
		})

		Convey("When recording against an id with no catalog banner", func() {
			count, err := svc.RecordImpression(ctx, "ghost")

			Convey("Then the counter is still accepted", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})

			Convey("And the snapshot only covers catalog banners", func() {
				rows, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].ID, ShouldEqual, b.ID)
			})
		})

		Convey("When no interaction was recorded", func() {
			rows, err := svc.Snapshot(ctx)

			Convey("Then the rate avoids dividing by zero", func() {
				So(err, ShouldBeNil)
				So(rows[0].Impressions, ShouldEqual, 0)
				So(rows[0].CTR, ShouldEqual, "0%")
			})
		})
	})
}

func TestService_PickActive(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When no banner is active", func() {
			_, ok, err := svc.PickActive(ctx)

			Convey("Then nothing is picked", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a single banner is active", func() {
			b, err := svc.Create(ctx, repository.CreateFields{
				ImageURL: "https://cdn.example.com/a.png",
				ClickURL: "https://example.com/a",
			})
			So(err, ShouldBeNil)

			picked, ok, err := svc.PickActive(ctx)

			Convey("Then that banner is picked", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(picked.ID, ShouldEqual, b.ID)
			})
		})

		Convey("When several banners are active", func() {
			ids := make(map[string]bool)
			for i := 0; i < 3; i++ {
				b, err := svc.Create(ctx, repository.CreateFields{
					ImageURL: "https://cdn.example.com/a.png",
					ClickURL: "https://example.com/a",
					Weight:   i + 1,
				})
				So(err, ShouldBeNil)
				ids[b.ID] = true
			}

			Convey("Then every pick lands on a known banner", func() {
				for i := 0; i < 20; i++ {
					picked, ok, err := svc.PickActive(ctx)
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
					So(ids[picked.ID], ShouldBeTrue)
				}
			})
		})
	})
}

func TestService_Len(t *testing.T) {
	Convey("Given a started service with a mixed catalog", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		a, err := svc.Create(ctx, repository.CreateFields{
			ImageURL: "https://cdn.example.com/a.png",
			ClickURL: "https://example.com/a",
		})
		So(err, ShouldBeNil)

		_, err = svc.Create(ctx, repository.CreateFields{
			ImageURL: "https://cdn.example.com/b.png",
			ClickURL: "https://example.com/b",
		})
		So(err, ShouldBeNil)

		_, err = svc.Deactivate(ctx, a.ID)
		So(err, ShouldBeNil)

		Convey("When counting banners", func() {
			total, active := svc.Len(ctx)

			Convey("Then inactive banners count toward the total only", func() {
				So(total, ShouldEqual, 2)
				So(active, ShouldEqual, 1)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["publishEnabled"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		_, err = svc.Create(ctx, repository.CreateFields{
			ImageURL: "https://cdn.example.com/a.png",
			ClickURL: "https://example.com/a",
		})
		So(err, ShouldBeNil)

		Convey("When getting stats", func() {
			stats := svc.GetStats()

			Convey("Then it should include catalog counts", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["bannersTotal"], ShouldEqual, 1)
				So(stats["bannersActive"], ShouldEqual, 1)
			})
		})
	})
}
