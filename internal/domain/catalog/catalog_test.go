package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/vitalis/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the built-in health catalog", t, func() {
		c := catalog.Default()

		Convey("Then it has ten questions with three to five options each", func() {
			So(c.Count(), ShouldEqual, 10)
			for i := 0; i < c.Count(); i++ {
				q, err := c.At(i)
				So(err, ShouldBeNil)
				So(len(q.Options), ShouldBeBetweenOrEqual, 3, 5)
				So(q.MaxValue(), ShouldEqual, 5)
			}
		})

		Convey("Then the maximum possible score is the sum of per-question maxima", func() {
			So(c.MaxPossibleScore(), ShouldEqual, 50)
		})

		Convey("Then questions keep their fixed order and texts", func() {
			first, err := c.At(0)
			So(err, ShouldBeNil)
			So(first.ID, ShouldEqual, 1)
			So(first.Text, ShouldEqual, "How would you rate your overall health?")

			last, err := c.At(9)
			So(err, ShouldBeNil)
			So(last.ID, ShouldEqual, 10)
			opt, ok := last.Option("c")
			So(ok, ShouldBeTrue)
			So(opt.Value, ShouldEqual, 2)
		})

		Convey("When indexing outside the catalog", func() {
			_, errLow := c.At(-1)
			_, errHigh := c.At(10)

			Convey("Then it fails with ErrOutOfRange", func() {
				So(errors.Is(errLow, catalog.ErrOutOfRange), ShouldBeTrue)
				So(errors.Is(errHigh, catalog.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When looking up by question id", func() {
			q, ok := c.Question(8)
			_, missing := c.Question(42)

			Convey("Then known ids resolve and unknown ids do not", func() {
				So(ok, ShouldBeTrue)
				So(len(q.Options), ShouldEqual, 3)
				So(missing, ShouldBeFalse)
			})
		})

		Convey("When the caller mutates the returned questions", func() {
			qs := c.Questions()
			qs[0].Options[0].Value = 100

			Convey("Then the catalog is unaffected", func() {
				So(c.MaxPossibleScore(), ShouldEqual, 50)
			})
		})
	})
}

func TestNew_Validation(t *testing.T) {
	Convey("Given candidate question lists", t, func() {
		opts := []catalog.Option{{ID: "a", Text: "Yes", Value: 1}}

		Convey("An empty list is rejected", func() {
			_, err := catalog.New(nil)
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("Duplicate question ids are rejected", func() {
			_, err := catalog.New([]catalog.Question{
				{ID: 1, Text: "one", Options: opts},
				{ID: 1, Text: "again", Options: opts},
			})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("A question without options is rejected", func() {
			_, err := catalog.New([]catalog.Question{{ID: 1, Text: "one"}})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("Repeated option ids within a question are rejected", func() {
			_, err := catalog.New([]catalog.Question{{ID: 1, Text: "one", Options: []catalog.Option{
				{ID: "a", Value: 1}, {ID: "a", Value: 2},
			}}})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("Negative option values are rejected", func() {
			_, err := catalog.New([]catalog.Question{{ID: 1, Text: "one", Options: []catalog.Option{
				{ID: "a", Value: -1},
			}}})
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("Option ids may repeat across questions", func() {
			c, err := catalog.New([]catalog.Question{
				{ID: 1, Text: "one", Options: opts},
				{ID: 2, Text: "two", Options: opts},
			})
			So(err, ShouldBeNil)
			So(c.MaxPossibleScore(), ShouldEqual, 2)
		})
	})
}
