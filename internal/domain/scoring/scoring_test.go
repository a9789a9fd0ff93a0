package scoring_test

import (
	"testing"

	"github.com/okian/vitalis/internal/domain/catalog"
	"github.com/okian/vitalis/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedMax int

func (f fixedMax) MaxPossibleScore() int { return int(f) }

func TestEngine(t *testing.T) {
	Convey("Given a new engine over the default catalog", t, func() {
		engine := scoring.NewEngine(catalog.Default())

		Convey("Then it starts at zero", func() {
			So(engine.CurrentScore(), ShouldEqual, 0)
		})

		Convey("When deltas are applied", func() {
			engine.ApplyDelta(3)
			engine.ApplyDelta(2)
			engine.ApplyDelta(-1)

			Convey("Then the running total follows them", func() {
				So(engine.CurrentScore(), ShouldEqual, 4)
			})

			Convey("And finalize pairs it with the catalog maximum", func() {
				res := engine.Finalize()
				So(res.Score, ShouldEqual, 4)
				So(res.MaxScore, ShouldEqual, 50)
			})

			Convey("And reset returns to zero", func() {
				engine.Reset()
				So(engine.CurrentScore(), ShouldEqual, 0)
			})
		})

		Convey("Then max score does not depend on the running total", func() {
			before := engine.Finalize().MaxScore
			engine.ApplyDelta(17)
			So(engine.Finalize().MaxScore, ShouldEqual, before)
		})
	})

	Convey("Given an engine over a custom maximum", t, func() {
		engine := scoring.NewEngine(fixedMax(7))
		engine.ApplyDelta(7)

		So(engine.Finalize(), ShouldResemble, scoring.Result{Score: 7, MaxScore: 7})
	})
}

func TestResult_Percentage(t *testing.T) {
	Convey("Given finalized results", t, func() {
		cases := []struct {
			score, max, want int
		}{
			{50, 50, 100},
			{0, 50, 0},
			{40, 50, 80},
			{39, 50, 78},
			{30, 50, 60},
			{20, 50, 40},
			{1, 8, 13},  // 12.5 rounds up
			{1, 3, 33},  // 33.3 rounds down
			{2, 3, 67},  // 66.7 rounds up
			{1, 200, 1}, // 0.5 rounds up
			{5, 0, 0},   // empty catalog
			{60, 50, 100},
		}

		for _, tc := range cases {
			res := scoring.Result{Score: tc.score, MaxScore: tc.max}
			So(res.Percentage(), ShouldEqual, tc.want)
		}
	})
}
