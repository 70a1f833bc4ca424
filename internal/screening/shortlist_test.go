package screening_test

import (
	"testing"

	"alfredoptarigan/cv-screener/internal/screening"
	. "github.com/smartystreets/goconvey/convey"
)

func scored(name, jobID string, score int) screening.ScoreResult {
	return screening.ScoreResult{
		CandidateName: name,
		JobID:         jobID,
		Score:         score,
		MatchedSkills: []string{},
		Status:        screening.StatusScored,
	}
}

func names(entries []screening.ShortlistEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.CandidateName)
	}
	return out
}

func TestSelector_Select(t *testing.T) {
	Convey("Given a selector", t, func() {
		Convey("When several candidates tie on score", func() {
			sel := screening.NewSelector(screening.WithTopN(2))
			shortlist := sel.Select([]screening.ScoreResult{
				scored("A", "devjob", 5),
				scored("B", "devjob", 5),
				scored("C", "devjob", 5),
			})

			Convey("Then input order is kept", func() {
				entries := shortlist.Entries("devjob")
				So(names(entries), ShouldResemble, []string{"A", "B"})
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When ties are mixed with other scores", func() {
			sel := screening.NewSelector()
			shortlist := sel.Select([]screening.ScoreResult{
				scored("low", "devjob", 1),
				scored("tie1", "devjob", 4),
				scored("top", "devjob", 5),
				scored("tie2", "devjob", 4),
			})

			Convey("Then equal scores stay in input order", func() {
				So(names(shortlist.Entries("devjob")), ShouldResemble, []string{"top", "tie1", "tie2", "low"})
			})
		})

		Convey("When a job has more candidates than top N", func() {
			sel := screening.NewSelector(screening.WithTopN(5))
			var results []screening.ScoreResult
			for i, s := range []int{2, 7, 1, 5, 3, 6, 4} {
				results = append(results, scored(string(rune('a'+i)), "devjob", s))
			}
			entries := sel.Select(results).Entries("devjob")

			Convey("Then exactly top N are kept, ranked by descending score", func() {
				So(entries, ShouldHaveLength, 5)
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
					if i > 0 {
						So(e.Score, ShouldBeLessThanOrEqualTo, entries[i-1].Score)
					}
				}
				So(entries[0].Score, ShouldEqual, 7)
				So(entries[4].Score, ShouldEqual, 3)
			})
		})

		Convey("When a job has fewer candidates than top N", func() {
			entries := screening.NewSelector().Select([]screening.ScoreResult{
				scored("only", "designer", 2),
			}).Entries("designer")

			Convey("Then nothing is padded", func() {
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When results span several jobs", func() {
			shortlist := screening.NewSelector().Select([]screening.ScoreResult{
				scored("d1", "designer", 3),
				scored("p1", "devjob", 1),
				scored("d2", "designer", 4),
			})

			Convey("Then each job is ranked independently with its own filenames", func() {
				So(shortlist.JobIDs(), ShouldResemble, []string{"designer", "devjob"})
				designer := shortlist.Entries("designer")
				So(names(designer), ShouldResemble, []string{"d2", "d1"})
				So(designer[0].AssignedFilename, ShouldEqual, "designer_1.pdf")
				So(designer[1].AssignedFilename, ShouldEqual, "designer_2.pdf")
				So(shortlist.Entries("devjob")[0].AssignedFilename, ShouldEqual, "devjob_1.pdf")
				So(shortlist.Len(), ShouldEqual, 3)
				So(shortlist.All(), ShouldHaveLength, 2)
			})
		})

		Convey("When some results failed scoring", func() {
			failed := screening.ScoreResult{
				CandidateName: "ghost",
				JobID:         "devjob",
				Status:        screening.StatusFailed,
				Error:         "not found",
			}
			shortlist := screening.NewSelector().Select([]screening.ScoreResult{
				scored("real", "devjob", 0),
				failed,
			})

			Convey("Then they are excluded from ranking but still reported", func() {
				So(names(shortlist.Entries("devjob")), ShouldResemble, []string{"real"})
				excluded := shortlist.Excluded()
				So(excluded, ShouldHaveLength, 1)
				So(excluded[0].CandidateName, ShouldEqual, "ghost")
				So(excluded[0].Score, ShouldEqual, 0)
			})
		})

		Convey("When top N is not positive", func() {
			sel := screening.NewSelector(screening.WithTopN(0))

			Convey("Then the default applies", func() {
				So(sel.TopN(), ShouldEqual, screening.DefaultTopN)
			})
		})

		Convey("When the input is empty", func() {
			shortlist := screening.NewSelector().Select(nil)

			Convey("Then the shortlist is empty", func() {
				So(shortlist.Len(), ShouldEqual, 0)
				So(shortlist.JobIDs(), ShouldBeEmpty)
				So(shortlist.Excluded(), ShouldBeEmpty)
				So(shortlist.Entries("any"), ShouldBeEmpty)
			})
		})

		Convey("When the caller mutates returned entries", func() {
			shortlist := screening.NewSelector().Select([]screening.ScoreResult{scored("a", "devjob", 1)})
			entries := shortlist.Entries("devjob")
			entries[0].CandidateName = "changed"

			Convey("Then the shortlist is unaffected", func() {
				So(shortlist.Entries("devjob")[0].CandidateName, ShouldEqual, "a")
			})
		})
	})
}

func TestShortlistFilename(t *testing.T) {
	Convey("Rank 1 of designer is designer_1.pdf", t, func() {
		So(screening.ShortlistFilename("designer", 1), ShouldEqual, "designer_1.pdf")
	})
}

func TestEndToEnd(t *testing.T) {
	Convey("Given the devjob requirements and two candidates", t, func() {
		table := screening.RequirementTable{"devjob": {"python", "sql", "git"}}
		candidates := []screening.Candidate{
			candidate("Ada", "devjob", "Experienced in Python and SQL development"),
			screening.Candidate{Name: "Ghost", JobID: "devjob", ResumeLocation: "s3://bucket/ghost.pdf"}.WithFailure("object not found"),
		}

		results := screening.NewScorer().ScoreAll(candidates, table)
		shortlist := screening.NewSelector().Select(results)
		records := screening.FormatAll(results)

		Convey("Then Ada scores 2 and is not shortlisted", func() {
			So(results[0].Score, ShouldEqual, 2)
			So(results[0].MatchedSkills, ShouldResemble, []string{"python", "sql"})
			So(records[0].Shortlisted, ShouldEqual, "No")
		})

		Convey("And the failed candidate is reported but not ranked", func() {
			So(results, ShouldHaveLength, 2)
			So(results[1].Failed(), ShouldBeTrue)
			So(results[1].Score, ShouldEqual, 0)
			So(records[1].Error, ShouldEqual, "object not found")
			So(names(shortlist.Entries("devjob")), ShouldResemble, []string{"Ada"})
			So(shortlist.Excluded()[0].CandidateName, ShouldEqual, "Ghost")
		})
	})
}

func TestUploadFilename(t *testing.T) {
	Convey("Uploads are prefixed with the job id", t, func() {
		So(screening.UploadFilename("1021", "resume.pdf"), ShouldEqual, "1021_resume.pdf")
		So(screening.UploadFilename("1021", "../../etc/cv.pdf"), ShouldEqual, "1021_cv.pdf")
	})
}

func TestShortlistKeepsResumeLocation(t *testing.T) {
	Convey("Ranked entries point back at the resume they came from", t, func() {
		c := screening.Candidate{Name: "Ada", JobID: "devjob", ResumeLocation: "temp_cvs/ada.pdf"}.WithText("python sql git")
		results := screening.NewScorer().ScoreAll([]screening.Candidate{c}, screening.RequirementTable{"devjob": {"python"}})
		entries := screening.NewSelector().Select(results).Entries("devjob")

		So(entries, ShouldHaveLength, 1)
		So(entries[0].ResumeLocation, ShouldEqual, "temp_cvs/ada.pdf")
	})
}
