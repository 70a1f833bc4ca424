package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/screening"
	"alfredoptarigan/cv-screener/internal/services"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSinkGroup(t *testing.T) {
	Convey("Given one healthy and one failing sink", t, func() {
		m := metrics.NewManager(metrics.WithNamespace("sinktest"))
		good := &recordingSink{name: "good"}
		bad := &recordingSink{name: "sheets", err: errors.New("quota exceeded")}
		group := services.NewSinkGroup(zap.NewNop(), m, bad, good)

		rec := screening.Record{Name: "Ada", JobID: "devjob", Score: 2, Shortlisted: "No", MatchedSkills: "python,sql"}
		stored := group.Persist(context.Background(), rec)

		Convey("Then the healthy sink still receives the record", func() {
			So(stored, ShouldEqual, 1)
			So(good.records, ShouldResemble, []screening.Record{rec})
		})

		Convey("And the failure is counted per sink", func() {
			n, err := testutil.GatherAndCount(m.Registry(), "sinktest_screening_sink_failures_total")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestScoreRecordFrom(t *testing.T) {
	Convey("Formatted records map onto database rows", t, func() {
		batchID := uuid.New()
		ctx := services.WithBatchID(context.Background(), batchID)

		row := services.ScoreRecordFrom(ctx, screening.Record{
			Name: "Ada", JobID: "devjob", Score: 3, Shortlisted: "Yes", MatchedSkills: "python,sql,git",
		})
		So(row.CandidateName, ShouldEqual, "Ada")
		So(row.Shortlisted, ShouldBeTrue)
		So(row.Status, ShouldEqual, models.StatusScored)
		So(row.ErrorMessage, ShouldBeNil)
		So(*row.BatchID, ShouldEqual, batchID)

		failed := services.ScoreRecordFrom(context.Background(), screening.Record{
			Name: "Ghost", JobID: "devjob", Shortlisted: "No", Error: "object not found",
		})
		So(failed.Status, ShouldEqual, models.StatusFailed)
		So(*failed.ErrorMessage, ShouldEqual, "object not found")
		So(failed.BatchID, ShouldBeNil)
	})
}

type fakeRepo struct {
	created []*models.ScoreRecord
	err     error
}

func (r *fakeRepo) Create(rec *models.ScoreRecord) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, rec)
	return nil
}

func (r *fakeRepo) FindByJob(jobID string, limit int) ([]models.ScoreRecord, error) {
	var out []models.ScoreRecord
	for _, rec := range r.created {
		if rec.JobID == jobID {
			out = append(out, *rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) FindByBatch(batchID uuid.UUID) ([]models.ScoreRecord, error) {
	var out []models.ScoreRecord
	for _, rec := range r.created {
		if rec.BatchID != nil && *rec.BatchID == batchID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func TestDBSink(t *testing.T) {
	Convey("The database sink stores each record", t, func() {
		repo := &fakeRepo{}
		sink := services.NewDBSink(repo)
		So(sink.Name(), ShouldEqual, "postgres")

		err := sink.Persist(context.Background(), screening.Record{Name: "Ada", JobID: "devjob", Shortlisted: "No"})
		So(err, ShouldBeNil)
		So(repo.created, ShouldHaveLength, 1)

		repo.err = errors.New("connection refused")
		err = sink.Persist(context.Background(), screening.Record{Name: "Bob", JobID: "devjob", Shortlisted: "No"})
		So(err, ShouldNotBeNil)
	})
}

type capturePublisher struct {
	exchange, key string
	msg           amqp.Publishing
}

func (p *capturePublisher) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return nil
}

func TestAMQPNotifier(t *testing.T) {
	Convey("Results are published per job with the batch id", t, func() {
		pub := &capturePublisher{}
		notifier := services.NewAMQPNotifierWithPublisher(pub, "screening_results")
		batchID := uuid.New()

		err := notifier.Persist(services.WithBatchID(context.Background(), batchID), screening.Record{
			Name: "Ada", JobID: "devjob", Score: 3, Shortlisted: "Yes", MatchedSkills: "python,sql,git",
		})
		So(err, ShouldBeNil)
		So(pub.exchange, ShouldEqual, "screening_results")
		So(pub.key, ShouldEqual, "result.devjob")
		So(pub.msg.ContentType, ShouldEqual, "application/json")

		var body map[string]interface{}
		So(json.Unmarshal(pub.msg.Body, &body), ShouldBeNil)
		So(body["name"], ShouldEqual, "Ada")
		So(body["shortlisted"], ShouldEqual, "Yes")
		So(body["batch_id"], ShouldEqual, batchID.String())
		So(body, ShouldNotContainKey, "error")
	})
}
