package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/screening"
	"alfredoptarigan/cv-screener/internal/services"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSubmissionRows(t *testing.T) {
	Convey("Form rows become submissions", t, func() {
		rows := [][]interface{}{
			{"Name", "Job ID", "CV Link"},
			{"Ada Lovelace", "1021", "https://drive.google.com/file/d/abc/view"},
			{"Short Row", "1021"},
			{"", "1021", "https://drive.google.com/file/d/def/view"},
			{" Grace ", " designer ", " s3://resumes/grace.pdf ", "extra"},
		}

		subs := services.ParseSubmissionRows(rows)
		So(subs, ShouldResemble, []services.Submission{
			{Name: "Ada Lovelace", JobID: "1021", ResumeLink: "https://drive.google.com/file/d/abc/view"},
			{Name: "Grace", JobID: "designer", ResumeLink: "s3://resumes/grace.pdf"},
		})

		c := subs[1].Candidate()
		So(c.ResumeLocation, ShouldEqual, "s3://resumes/grace.pdf")
		So(c.ResumeText, ShouldBeNil)
	})

	Convey("A sheet with only a header has no submissions", t, func() {
		So(services.ParseSubmissionRows([][]interface{}{{"Name", "Job ID", "CV Link"}}), ShouldBeEmpty)
		So(services.ParseSubmissionRows(nil), ShouldBeEmpty)
	})
}

func googleTestServer(t *testing.T, handler http.HandlerFunc) []option.ClientOption {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return []option.ClientOption{
		option.WithEndpoint(ts.URL + "/"),
		option.WithHTTPClient(ts.Client()),
	}
}

func TestSheetsService(t *testing.T) {
	Convey("Given a sheets API", t, func() {
		var (
			mu       sync.Mutex
			appended [][]interface{}
			query    string
		)
		opts := googleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case r.Method == http.MethodGet:
				json.NewEncoder(w).Encode(map[string]interface{}{
					"range": "Form Responses 1!A1:C3",
					"values": [][]string{
						{"Name", "Job ID", "CV Link"},
						{"Ada", "1021", "https://drive.google.com/file/d/abc/view"},
					},
				})
			case strings.HasSuffix(r.URL.Path, ":append"):
				var body struct {
					Values [][]interface{} `json:"values"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				mu.Lock()
				appended = append(appended, body.Values...)
				query = r.URL.RawQuery
				mu.Unlock()
				w.Write([]byte(`{}`))
			default:
				http.NotFound(w, r)
			}
		})

		svc, err := services.NewSheetsService(context.Background(), config.GoogleConfig{
			SheetID:          "sheet-1",
			SubmissionsRange: "Form Responses 1",
			ResultsRange:     "Results!A:G",
		}, opts...)
		So(err, ShouldBeNil)

		Convey("Submissions are read past the header", func() {
			subs, err := svc.FetchSubmissions(context.Background())
			So(err, ShouldBeNil)
			So(subs, ShouldHaveLength, 1)
			So(subs[0].Name, ShouldEqual, "Ada")
		})

		Convey("Results are appended as raw rows", func() {
			err := svc.Persist(context.Background(), screening.Record{
				Name: "Ada", JobID: "1021", Score: 3, Shortlisted: "Yes", MatchedSkills: "python,flask,sql",
				ResumeLink: "https://drive.google.com/file/d/abc/view",
			})
			So(err, ShouldBeNil)
			So(svc.Name(), ShouldEqual, "sheets")

			mu.Lock()
			defer mu.Unlock()
			So(appended, ShouldHaveLength, 1)
			So(appended[0], ShouldHaveLength, 7)
			So(appended[0][0], ShouldEqual, "Ada")
			So(appended[0][2], ShouldEqual, "https://drive.google.com/file/d/abc/view")
			So(appended[0][3], ShouldEqual, 3.0)
			So(appended[0][4], ShouldEqual, "Yes")
			So(query, ShouldContainSubstring, "valueInputOption=RAW")
			So(query, ShouldContainSubstring, "insertDataOption=INSERT_ROWS")
		})
	})

	Convey("A sheet id is required", t, func() {
		_, err := services.NewSheetsService(context.Background(), config.GoogleConfig{}, option.WithoutAuthentication())
		So(err, ShouldNotBeNil)
	})
}

func TestDriveService(t *testing.T) {
	Convey("Given a drive API", t, func() {
		var uploaded bool
		opts := googleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Query().Get("alt") == "media":
				w.Write([]byte("python and sql"))
			case r.Method == http.MethodGet:
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"name":"ada.txt","mimeType":"text/plain"}`))
			case r.Method == http.MethodPost:
				uploaded = true
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"new-file","webViewLink":"https://drive.google.com/file/d/new-file/view"}`))
			default:
				http.NotFound(w, r)
			}
		})

		drive, err := services.NewDriveService(context.Background(), config.GoogleConfig{DriveFolderID: "folder-1"}, 0, opts...)
		So(err, ShouldBeNil)

		Convey("A linked file is downloaded with its metadata", func() {
			f, err := drive.Retrieve(context.Background(), "https://drive.google.com/file/d/abc/view?usp=sharing")
			So(err, ShouldBeNil)
			So(f.Name, ShouldEqual, "ada.txt")
			So(f.MimeType, ShouldEqual, "text/plain")
			So(string(f.Data), ShouldEqual, "python and sql")
		})

		Convey("A shortlisted file is uploaded into the folder", func() {
			src := writeFile(t, t.TempDir(), "cv.pdf", "%PDF")
			So(drive.Place(context.Background(), src, "1021_1.pdf"), ShouldBeNil)
			So(uploaded, ShouldBeTrue)
			So(drive.Name(), ShouldEqual, "drive")
		})
	})
}
