package types_test

import (
	"encoding/json"
	"testing"

	"bannerd/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyticsRow(t *testing.T) {
	Convey("Given an AnalyticsRow struct", t, func() {
		Convey("When creating a new row", func() {
			row := types.AnalyticsRow{
				ID:          "banner-123",
				Title:       "Summer Sale",
				Impressions: 100,
				Clicks:      33,
				CTR:         "33.00%",
				Active:      true,
			}

			Convey("Then it should have the correct values", func() {
				So(row.ID, ShouldEqual, "banner-123")
				So(row.Title, ShouldEqual, "Summer Sale")
				So(row.Impressions, ShouldEqual, 100)
				So(row.Clicks, ShouldEqual, 33)
				So(row.CTR, ShouldEqual, "33.00%")
				So(row.Active, ShouldBeTrue)
			})
		})

		Convey("When creating a row with zero values", func() {
			row := types.AnalyticsRow{}

			Convey("Then it should have default values", func() {
				So(row.ID, ShouldEqual, "")
				So(row.Impressions, ShouldEqual, 0)
				So(row.Clicks, ShouldEqual, 0)
				So(row.CTR, ShouldEqual, "")
				So(row.Active, ShouldBeFalse)
			})
		})

		Convey("When marshaling a row to JSON", func() {
			row := types.AnalyticsRow{
				ID:          "banner-9",
				Title:       "New Banner",
				Impressions: 2,
				Clicks:      0,
				CTR:         "0%",
				Active:      false,
			}

			data, err := json.Marshal(row)

			Convey("Then it should serialize the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"id":"banner-9"`)
				So(string(data), ShouldContainSubstring, `"impressions":2`)
				So(string(data), ShouldContainSubstring, `"ctr":"0%"`)
				So(string(data), ShouldContainSubstring, `"active":false`)
			})
		})
	})
}
