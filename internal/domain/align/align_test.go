package align_test

import (
	"encoding/json"
	"strings"
	"testing"

	align "github.com/fluense/fluense/internal/domain/align"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAlign(t *testing.T) {
	Convey("Given reference and recognized token sequences", t, func() {
		Convey("When the sequences are identical", func() {
			tokens := strings.Fields("the quick brown fox")
			res := align.Align(tokens, tokens)

			Convey("Then every token should be correct", func() {
				So(res.Correct, ShouldResemble, tokens)
				So(res.Wrong, ShouldBeEmpty)
				So(res.Missing, ShouldBeEmpty)
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When the recognized sequence is empty", func() {
			ref := strings.Fields("the quick brown fox")
			res := align.Align(ref, nil)

			Convey("Then every reference token should be missing", func() {
				So(res.Missing, ShouldResemble, ref)
				So(res.Correct, ShouldBeEmpty)
				So(res.Wrong, ShouldBeEmpty)
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When the reference sequence is empty", func() {
			rec := strings.Fields("some invented words")
			res := align.Align(nil, rec)

			Convey("Then every recognized token should be extra", func() {
				So(res.Extra, ShouldResemble, rec)
				So(res.Correct, ShouldBeEmpty)
				So(res.Wrong, ShouldBeEmpty)
				So(res.Missing, ShouldBeEmpty)
			})
		})

		Convey("When both sequences are empty", func() {
			res := align.Align(nil, nil)

			Convey("Then all containers should be empty but non-nil", func() {
				So(res.Correct, ShouldNotBeNil)
				So(res.Wrong, ShouldNotBeNil)
				So(res.Missing, ShouldNotBeNil)
				So(res.Extra, ShouldNotBeNil)
				So(res.Correct, ShouldBeEmpty)
				So(res.Wrong, ShouldBeEmpty)
				So(res.Missing, ShouldBeEmpty)
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When a word is skipped and another substituted", func() {
			ref := strings.Fields("the quick brown fox jumps over the lazy dog")
			rec := strings.Fields("the brown fox jumps over the lazy cat")
			res := align.Align(ref, rec)

			Convey("Then the skipped word should be missing and the substitution paired", func() {
				So(res.Correct, ShouldResemble, strings.Fields("the brown fox jumps over the lazy"))
				So(res.Missing, ShouldResemble, []string{"quick"})
				So(res.Wrong, ShouldResemble, []align.WordPair{{Spoken: "cat", Correct: "dog"}})
				So(res.Extra, ShouldBeEmpty)
			})

			Convey("Then both partition identities should hold", func() {
				So(len(res.Correct)+len(res.Wrong)+len(res.Missing), ShouldEqual, len(ref))
				So(len(res.Correct)+len(res.Wrong)+len(res.Extra), ShouldEqual, len(rec))
			})
		})

		Convey("When two words are substituted in place", func() {
			ref := strings.Fields("the quick brown fox jumps over the lazy dog")
			rec := strings.Fields("the quack brown fox jumps over the lazy cat")
			res := align.Align(ref, rec)

			Convey("Then both substitutions should pair spoken with correct", func() {
				So(res.Wrong, ShouldResemble, []align.WordPair{
					{Spoken: "quack", Correct: "quick"},
					{Spoken: "cat", Correct: "dog"},
				})
				So(len(res.Correct), ShouldEqual, 7)
				So(res.Missing, ShouldBeEmpty)
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When a substitution block is longer on the reference side", func() {
			ref := strings.Fields("a b c d")
			rec := strings.Fields("a x d")
			res := align.Align(ref, rec)

			Convey("Then the pairable prefix is wrong and the leftover is missing", func() {
				So(res.Correct, ShouldResemble, []string{"a", "d"})
				So(res.Wrong, ShouldResemble, []align.WordPair{{Spoken: "x", Correct: "b"}})
				So(res.Missing, ShouldResemble, []string{"c"})
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When a substitution block is longer on the recognized side", func() {
			ref := strings.Fields("a b d")
			rec := strings.Fields("a x y d")
			res := align.Align(ref, rec)

			Convey("Then the pairable prefix is wrong and the leftover is extra", func() {
				So(res.Correct, ShouldResemble, []string{"a", "d"})
				So(res.Wrong, ShouldResemble, []align.WordPair{{Spoken: "x", Correct: "b"}})
				So(res.Missing, ShouldBeEmpty)
				So(res.Extra, ShouldResemble, []string{"y"})
			})
		})

		Convey("When tokens repeat", func() {
			ref := strings.Fields("the dog and the cat and the bird")
			rec := strings.Fields("the dog and the bird")
			res := align.Align(ref, rec)

			Convey("Then order and duplicates should be preserved", func() {
				So(res.Correct, ShouldResemble, strings.Fields("the dog and the bird"))
				So(res.Missing, ShouldResemble, []string{"cat", "and", "the"})
				So(res.Wrong, ShouldBeEmpty)
				So(res.Extra, ShouldBeEmpty)
			})
		})

		Convey("When extra words are inserted between matches", func() {
			ref := strings.Fields("read this aloud")
			rec := strings.Fields("read um this uh aloud")
			res := align.Align(ref, rec)

			Convey("Then insertions should be extra in spoken order", func() {
				So(res.Correct, ShouldResemble, []string{"read", "this", "aloud"})
				So(res.Extra, ShouldResemble, []string{"um", "uh"})
				So(res.Wrong, ShouldBeEmpty)
				So(res.Missing, ShouldBeEmpty)
			})
		})

		Convey("When aligning the same inputs twice", func() {
			ref := strings.Fields("she sells sea shells by the sea shore")
			rec := strings.Fields("she sells shells by the shore line")

			first := align.Align(ref, rec)
			second := align.Align(ref, rec)

			Convey("Then the results should be identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestAlignPartitionInvariant(t *testing.T) {
	Convey("Given a spread of token sequences", t, func() {
		cases := []struct {
			name string
			ref  string
			rec  string
		}{
			{"identical", "a b c", "a b c"},
			{"disjoint", "a b c", "x y z"},
			{"prefix only", "a b c d e", "a b"},
			{"suffix only", "a b c d e", "d e"},
			{"interleaved", "a x b y c", "x q y"},
			{"all missing", "a b c", ""},
			{"all extra", "", "a b c"},
			{"repeats", "a a a b", "a b a"},
		}

		for _, tc := range cases {
			Convey("When aligning the "+tc.name+" case", func() {
				ref := strings.Fields(tc.ref)
				rec := strings.Fields(tc.rec)
				res := align.Align(ref, rec)

				Convey("Then the reference side should partition exactly", func() {
					So(len(res.Correct)+len(res.Wrong)+len(res.Missing), ShouldEqual, len(ref))
				})

				Convey("Then the recognized side should partition exactly", func() {
					So(len(res.Correct)+len(res.Wrong)+len(res.Extra), ShouldEqual, len(rec))
				})
			})
		}
	})
}

func TestWordPairJSON(t *testing.T) {
	Convey("Given a word pair", t, func() {
		pair := align.WordPair{Spoken: "quack", Correct: "quick"}

		Convey("When marshaling to JSON", func() {
			data, err := json.Marshal(pair)

			Convey("Then it should encode as a two-element array", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `["quack","quick"]`)
			})
		})

		Convey("When unmarshaling the wire form", func() {
			var decoded align.WordPair
			err := json.Unmarshal([]byte(`["cat","dog"]`), &decoded)

			Convey("Then the named fields should be populated", func() {
				So(err, ShouldBeNil)
				So(decoded.Spoken, ShouldEqual, "cat")
				So(decoded.Correct, ShouldEqual, "dog")
			})
		})

		Convey("When unmarshaling a malformed pair", func() {
			var decoded align.WordPair
			err := json.Unmarshal([]byte(`["only-one"]`), &decoded)

			Convey("Then it should reject the value", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
