package model_test

import (
	"testing"

	"bannerd/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestBanner(t *testing.T) {
	convey.Convey("Given a Banner struct", t, func() {
		convey.Convey("When creating a new banner", func() {
			banner := model.Banner{
				ID:       "banner-123",
				ImageURL: "https://cdn.example.com/creative.png",
				ClickURL: "https://example.com/landing",
				Title:    "Summer Sale",
				Weight:   3,
				Active:   true,
				IsLocal:  false,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(banner.ID, convey.ShouldEqual, "banner-123")
				convey.So(banner.ImageURL, convey.ShouldEqual, "https://cdn.example.com/creative.png")
				convey.So(banner.ClickURL, convey.ShouldEqual, "https://example.com/landing")
				convey.So(banner.Title, convey.ShouldEqual, "Summer Sale")
				convey.So(banner.Weight, convey.ShouldEqual, 3)
				convey.So(banner.Active, convey.ShouldBeTrue)
				convey.So(banner.IsLocal, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When creating a banner with zero values", func() {
			banner := model.Banner{}

			convey.Convey("Then it should have default values", func() {
				convey.So(banner.ID, convey.ShouldEqual, "")
				convey.So(banner.Weight, convey.ShouldEqual, 0)
				convey.So(banner.Active, convey.ShouldBeFalse)
			})
		})
	})
}

func TestCounters(t *testing.T) {
	convey.Convey("Given a Counters struct", t, func() {
		convey.Convey("When zero-valued", func() {
			c := model.Counters{}

			convey.Convey("Then both counters start at zero", func() {
				convey.So(c.Impressions, convey.ShouldEqual, 0)
				convey.So(c.Clicks, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When clicks exceed impressions", func() {
			c := model.Counters{Impressions: 1, Clicks: 5}

			convey.Convey("Then the struct itself does not constrain the relation", func() {
				convey.So(c.Clicks, convey.ShouldBeGreaterThan, c.Impressions)
			})
		})
	})
}

func TestDefaults(t *testing.T) {
	convey.Convey("Given the banner default constants", t, func() {
		convey.So(model.DefaultTitle, convey.ShouldEqual, "New Banner")
		convey.So(model.MinWeight, convey.ShouldEqual, 1)
	})
}
