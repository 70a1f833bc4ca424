package screening_test

import (
	"testing"

	"alfredoptarigan/cv-screener/internal/screening"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatcher_Match(t *testing.T) {
	Convey("Given a distinct-count matcher", t, func() {
		m := screening.NewMatcher(screening.ScoreDistinct)

		Convey("When the resume text is empty", func() {
			score, matched := m.Match("", []string{"python", "sql"})

			Convey("Then nothing matches", func() {
				So(score, ShouldEqual, 0)
				So(matched, ShouldBeEmpty)
			})
		})

		Convey("When no skills are required", func() {
			score, matched := m.Match("Python developer", nil)

			Convey("Then nothing matches", func() {
				So(score, ShouldEqual, 0)
				So(matched, ShouldBeEmpty)
			})
		})

		Convey("When skills differ in case from the text", func() {
			score, matched := m.Match("Python Flask", []string{"PYTHON", "flask"})

			Convey("Then both skills match in lowercase form", func() {
				So(score, ShouldEqual, 2)
				So(matched, ShouldResemble, []string{"python", "flask"})
			})
		})

		Convey("When a skill appears several times", func() {
			score, matched := m.Match("go go go, golang, Go!", []string{"go"})

			Convey("Then it counts once", func() {
				So(score, ShouldEqual, 1)
				So(matched, ShouldResemble, []string{"go"})
			})
		})

		Convey("When the required list repeats a skill in another case", func() {
			score, matched := m.Match("sql and more SQL", []string{"sql", "SQL", "Sql"})

			Convey("Then the duplicate is ignored", func() {
				So(score, ShouldEqual, 1)
				So(matched, ShouldResemble, []string{"sql"})
			})
		})

		Convey("When a required skill is empty", func() {
			score, matched := m.Match("anything", []string{""})

			Convey("Then it never matches", func() {
				So(score, ShouldEqual, 0)
				So(matched, ShouldBeEmpty)
			})
		})

		Convey("When a skill is padded with spaces", func() {
			skills := []string{" go "}

			Convey("Then the padding must be present in the text", func() {
				score, matched := m.Match("Google Cloud certified", skills)
				So(score, ShouldEqual, 0)
				So(matched, ShouldBeEmpty)
			})

			Convey("Then a standalone word matches and keeps its padding", func() {
				score, matched := m.Match("I write Go daily", skills)
				So(score, ShouldEqual, 1)
				So(matched, ShouldResemble, []string{" go "})
			})
		})

		Convey("When a skill is a substring of a longer word", func() {
			score, _ := m.Match("Built user interfaces", []string{"ui"})

			Convey("Then substring containment still counts it", func() {
				So(score, ShouldEqual, 1)
			})
		})

		Convey("When only some skills are present", func() {
			skills := []string{"python", "sql", "git"}
			score, matched := m.Match("Experienced in Python and SQL development", skills)

			Convey("Then the score never exceeds the number of skills", func() {
				So(score, ShouldEqual, 2)
				So(score, ShouldBeLessThanOrEqualTo, len(skills))
				So(matched, ShouldResemble, []string{"python", "sql"})
			})
		})

		Convey("When the same inputs are matched twice", func() {
			skills := []string{"figma", "ui", "ux"}
			s1, m1 := m.Match("Figma UI/UX", skills)
			s2, m2 := m.Match("Figma UI/UX", skills)

			Convey("Then the outputs are identical", func() {
				So(s1, ShouldEqual, s2)
				So(m1, ShouldResemble, m2)
			})
		})
	})

	Convey("Given an occurrence-count matcher", t, func() {
		m := screening.NewMatcher(screening.ScoreOccurrences)

		Convey("When a skill appears several times", func() {
			score, matched := m.Match("Go, go and GO", []string{"go", "rust"})

			Convey("Then every occurrence is counted but the matched set is unchanged", func() {
				So(score, ShouldEqual, 3)
				So(matched, ShouldResemble, []string{"go"})
			})
		})
	})
}

func TestParseScoreMode(t *testing.T) {
	Convey("Given score mode strings", t, func() {
		Convey("Empty and distinct parse to distinct", func() {
			mode, err := screening.ParseScoreMode("")
			So(err, ShouldBeNil)
			So(mode, ShouldEqual, screening.ScoreDistinct)

			mode, err = screening.ParseScoreMode(" Distinct ")
			So(err, ShouldBeNil)
			So(mode, ShouldEqual, screening.ScoreDistinct)
		})

		Convey("Occurrences parses", func() {
			mode, err := screening.ParseScoreMode("occurrences")
			So(err, ShouldBeNil)
			So(mode, ShouldEqual, screening.ScoreOccurrences)
		})

		Convey("Unknown modes are rejected", func() {
			_, err := screening.ParseScoreMode("weighted")
			So(err, ShouldNotBeNil)
		})
	})
}
