package classify_test

import (
	"testing"

	"github.com/okian/vitalis/internal/domain/classify"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify_Boundaries(t *testing.T) {
	Convey("Given percentages on and around the thresholds", t, func() {
		cases := map[int]classify.Category{
			100: classify.Excellent,
			80:  classify.Excellent,
			79:  classify.Good,
			60:  classify.Good,
			59:  classify.ModerateRisk,
			40:  classify.ModerateRisk,
			39:  classify.HighRisk,
			0:   classify.HighRisk,
		}

		Convey("Then each lands in the expected category", func() {
			for pct, want := range cases {
				So(classify.Classify(pct), ShouldEqual, want)
			}
		})
	})
}

func TestCategory_Details(t *testing.T) {
	Convey("Given every category", t, func() {
		Convey("Then each carries a description and three to four recommendations", func() {
			for _, c := range classify.Categories() {
				d := c.Details()
				So(d.Category, ShouldEqual, c)
				So(d.Description, ShouldNotBeBlank)
				So(c.Title(), ShouldNotBeBlank)
				So(len(d.Recommendations), ShouldBeBetweenOrEqual, 3, 4)
			}
		})

		Convey("Then callers cannot change the static recommendations", func() {
			d := classify.Excellent.Details()
			d.Recommendations[0] = "changed"
			So(classify.Excellent.Details().Recommendations[0], ShouldNotEqual, "changed")
		})
	})
}

func TestParseCategory(t *testing.T) {
	Convey("Given stored category strings", t, func() {
		Convey("Known values round-trip", func() {
			for _, c := range classify.Categories() {
				got, err := classify.ParseCategory(c.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c)
			}
		})

		Convey("Case and whitespace are ignored", func() {
			got, err := classify.ParseCategory("  High_Risk ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, classify.HighRisk)
		})

		Convey("Unknown values are rejected", func() {
			_, err := classify.ParseCategory("fine")
			So(err, ShouldNotBeNil)
		})
	})
}
