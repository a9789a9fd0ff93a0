package simulate

import (
	"testing"

	"github.com/okian/vitalis/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVerifyResult(t *testing.T) {
	Convey("verifyResult", t, func() {
		good := types.Result{
			Score: 32, MaxScore: 50, Percentage: 64,
			Category: "good", Title: "Good",
			Recommendations: []string{"x"},
		}
		So(verifyResult(good, 32, 50), ShouldBeNil)

		bad := good
		bad.Percentage = 65
		So(verifyResult(bad, 32, 50), ShouldNotBeNil)

		bad = good
		bad.Category = "excellent"
		So(verifyResult(bad, 32, 50), ShouldNotBeNil)

		So(verifyResult(good, 40, 50), ShouldNotBeNil)
	})
}

func TestVerifyHistory(t *testing.T) {
	Convey("verifyHistory", t, func() {
		want := map[string]struct{}{"a": {}, "b": {}}

		So(verifyHistory([]types.Result{{ResultID: "b"}, {ResultID: "a"}}, want, 5), ShouldBeNil)
		So(verifyHistory([]types.Result{{ResultID: "a"}}, want, 5), ShouldNotBeNil)
		So(verifyHistory([]types.Result{{ResultID: "a"}, {ResultID: "a"}}, want, 5), ShouldNotBeNil)

		Convey("A trimmed history only needs to be full", func() {
			So(verifyHistory([]types.Result{{ResultID: "b"}}, want, 1), ShouldBeNil)
			So(verifyHistory(nil, want, 1), ShouldNotBeNil)
		})
	})
}
