package assist_test

import (
	"testing"

	align "github.com/fluense/fluense/internal/domain/align"
	assist "github.com/fluense/fluense/internal/domain/assist"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given a reading with wrong and missing words", t, func() {
		wrong := []align.WordPair{{Spoken: "cat", Correct: "dog"}}
		missing := []string{"quick"}

		a := assist.Build(wrong, missing)

		Convey("Then the error flags should reflect the counts", func() {
			So(a.HasErrors, ShouldBeTrue)
			So(a.ErrorCount, ShouldEqual, 2)
		})

		Convey("Then each wrong word should get a correction message", func() {
			So(a.WordErrors, ShouldHaveLength, 1)
			So(a.WordErrors[0].Spoken, ShouldEqual, "cat")
			So(a.WordErrors[0].Correct, ShouldEqual, "dog")
			So(a.WordErrors[0].Message, ShouldEqual,
				"You said 'cat' instead of 'dog'. Listen to the correct pronunciation and try again.")
		})

		Convey("Then each missing word should get a retry message", func() {
			So(a.MissingWords, ShouldHaveLength, 1)
			So(a.MissingWords[0].Word, ShouldEqual, "quick")
			So(a.MissingWords[0].Message, ShouldEqual,
				"You skipped this word. Listen: 'quick'. Try reading it again.")
		})

		Convey("Then a practice plan should be attached", func() {
			So(a.PracticePlan, ShouldNotBeNil)
			So(a.PracticePlan.TotalErrors, ShouldEqual, 2)
			So(a.PracticePlan.Instructions, ShouldHaveLength, 4)
			So(a.PracticePlan.Motivation, ShouldNotBeBlank)
		})
	})

	Convey("Given a clean reading", t, func() {
		a := assist.Build(nil, nil)

		Convey("Then nothing should be flagged", func() {
			So(a.HasErrors, ShouldBeFalse)
			So(a.ErrorCount, ShouldEqual, 0)
		})

		Convey("Then the guidance lists should be empty but non-nil", func() {
			So(a.WordErrors, ShouldNotBeNil)
			So(a.WordErrors, ShouldBeEmpty)
			So(a.MissingWords, ShouldNotBeNil)
			So(a.MissingWords, ShouldBeEmpty)
		})

		Convey("Then no practice plan should be attached", func() {
			So(a.PracticePlan, ShouldBeNil)
		})
	})

	Convey("Given a reading with only missing words", t, func() {
		a := assist.Build(nil, []string{"over", "lazy"})

		Convey("Then the plan should count just the misses", func() {
			So(a.ErrorCount, ShouldEqual, 2)
			So(a.WordErrors, ShouldBeEmpty)
			So(a.MissingWords, ShouldHaveLength, 2)
			So(a.PracticePlan.TotalErrors, ShouldEqual, 2)
		})
	})
}
