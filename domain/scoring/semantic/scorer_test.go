package semantic_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pathwise/matchengine/domain/model"
	"github.com/pathwise/matchengine/domain/scoring/semantic"
)

func dataJob() model.JobProfile {
	return model.JobProfile{
		ID:          uuid.New(),
		Title:       "Data Engineer",
		Team:        "Analytics",
		Description: "Build and operate batch and streaming data pipelines with python, spark and airflow on aws.",
		RequiredSkills: []string{
			"Python", "Spark", "Airflow", "AWS",
		},
		Status: model.JobOpen,
	}
}

func dataCandidate() model.CandidateProfile {
	return model.CandidateProfile{
		ID:               uuid.New(),
		Role:             model.RoleEmployee,
		CurrentTitle:     "Data Engineer",
		Aspirations:      "keep building large scale data pipelines",
		TechnicalSkills:  []string{"Python", "Spark", "Airflow", "AWS"},
		ExperienceMonths: 48,
	}
}

func unrelatedCandidate() model.CandidateProfile {
	return model.CandidateProfile{
		ID:               uuid.New(),
		Role:             model.RoleEmployee,
		CurrentTitle:     "Graphic Designer",
		Aspirations:      "create brand identities and illustration",
		TechnicalSkills:  []string{"Photoshop", "Illustrator", "Typography"},
		ExperienceMonths: 60,
	}
}

func TestScorer_ScoreAll(t *testing.T) {
	Convey("Given the semantic scorer and a mixed candidate pool", t, func() {
		scorer := semantic.NewScorer()
		job := dataJob()
		strong := dataCandidate()
		weak := unrelatedCandidate()

		Convey("When scoring the pool jointly", func() {
			results, err := scorer.ScoreAll(context.Background(), job,
				[]model.CandidateProfile{weak, strong})
			So(err, ShouldBeNil)

			Convey("Then the on-profile candidate ranks first", func() {
				So(results, ShouldNotBeEmpty)
				So(results[0].CandidateID, ShouldEqual, strong.ID)
				So(results[0].Method, ShouldEqual, model.MethodSemantic)
			})

			Convey("And scores are percentages sorted non-increasing", func() {
				for i, r := range results {
					So(r.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(r.Score, ShouldBeLessThanOrEqualTo, 100)
					if i > 0 {
						So(r.Score, ShouldBeLessThanOrEqualTo, results[i-1].Score)
					}
				}
			})
		})

		Convey("When scoring the same pool twice", func() {
			first, err := scorer.ScoreAll(context.Background(), job,
				[]model.CandidateProfile{weak, strong})
			So(err, ShouldBeNil)
			second, err := scorer.ScoreAll(context.Background(), job,
				[]model.CandidateProfile{weak, strong})
			So(err, ShouldBeNil)

			Convey("Then results are identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the pool is empty", func() {
			_, err := scorer.ScoreAll(context.Background(), job, nil)

			Convey("Then it reports the empty pool", func() {
				So(err, ShouldWrap, semantic.ErrEmptyPool)
			})
		})

		Convey("When every blob is empty", func() {
			blank := model.CandidateProfile{ID: uuid.New()}
			_, err := scorer.ScoreAll(context.Background(), model.JobProfile{ID: uuid.New()},
				[]model.CandidateProfile{blank})

			Convey("Then it reports a degenerate corpus", func() {
				So(err, ShouldWrap, semantic.ErrDegenerateCorpus)
			})
		})
	})
}

func verboseJob() model.JobProfile {
	return model.JobProfile{
		ID:    uuid.New(),
		Title: "Site Reliability Engineer",
		Team:  "Infrastructure",
		Description: "Own availability and latency objectives for the payments platform. " +
			"Operate kubernetes clusters across regions, build terraform modules for " +
			"provisioning, tune postgres replication and connection pooling, instrument " +
			"services with prometheus and grafana dashboards, automate incident response " +
			"runbooks, harden network policies, and drive capacity planning reviews with " +
			"load testing and chaos experiments.",
		RequiredSkills: []string{"Kubernetes", "Terraform", "Prometheus", "PostgreSQL"},
		OptionalSkills: []string{"Grafana", "Chaos Engineering"},
		Status:         model.JobOpen,
	}
}

func verboseCandidate() model.CandidateProfile {
	return model.CandidateProfile{
		ID:           uuid.New(),
		Role:         model.RoleEmployee,
		CurrentTitle: "Site Reliability Engineer",
		Aspirations: "Deepen expertise in kubernetes operations, terraform automation and " +
			"postgres performance tuning while mentoring junior engineers on incident " +
			"response and capacity planning.",
		TechnicalSkills:  []string{"Kubernetes", "Terraform", "Prometheus", "PostgreSQL", "Grafana"},
		Education:        []string{"bachelor of science in computer engineering"},
		Certifications:   []string{"CKA"},
		PastEmployers:    []string{"Acme Cloud", "Northwind Hosting"},
		Achievements:     []string{"cut p99 latency in half during the regional failover project"},
		ExperienceMonths: 72,
	}
}

func TestScorer_ScoreAll_WideVocabulary(t *testing.T) {
	Convey("Given a small pool whose corpus has more features than latent dimensions", t, func() {
		scorer := semantic.NewScorer()
		job := verboseJob()
		strong := verboseCandidate()
		weak := unrelatedCandidate()

		Convey("When scoring fits and reduces the space", func() {
			results, err := scorer.ScoreAll(context.Background(), job,
				[]model.CandidateProfile{weak, strong})

			Convey("Then the reduction degrades gracefully to the document count", func() {
				So(err, ShouldBeNil)
				So(results, ShouldNotBeEmpty)
				So(results[0].CandidateID, ShouldEqual, strong.ID)
				for _, r := range results {
					So(r.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(r.Score, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})
	})
}

func TestScorer_ScoreAll_Threshold(t *testing.T) {
	Convey("Given a scorer with the similarity floor raised to 1.0", t, func() {
		scorer := semantic.NewScorer(semantic.WithMinSimilarity(1.0))
		job := dataJob()

		Convey("When scoring a merely similar candidate", func() {
			results, err := scorer.ScoreAll(context.Background(), job,
				[]model.CandidateProfile{unrelatedCandidate()})
			So(err, ShouldBeNil)

			Convey("Then nothing clears the floor", func() {
				So(results, ShouldBeEmpty)
			})
		})
	})
}

func TestScorer_Score(t *testing.T) {
	Convey("Given the semantic scorer", t, func() {
		scorer := semantic.NewScorer()

		Convey("When scoring a well-matched pair ad hoc", func() {
			res, err := scorer.Score(context.Background(), dataJob(), dataCandidate())

			Convey("Then it returns a bounded percentage without error", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldBeGreaterThan, 0)
				So(res.Score, ShouldBeLessThanOrEqualTo, 100)
			})
		})

		Convey("When the pair alone carries a wide vocabulary", func() {
			res, err := scorer.Score(context.Background(), verboseJob(), verboseCandidate())

			Convey("Then the two-document factorization still yields a bounded score", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldBeGreaterThan, 0)
				So(res.Score, ShouldBeLessThanOrEqualTo, 100)
			})
		})

		Convey("When the combined text has no usable vocabulary", func() {
			job := model.JobProfile{ID: uuid.New(), Title: "the of an at"}
			candidate := model.CandidateProfile{ID: uuid.New(), CurrentTitle: "the of"}
			res, err := scorer.Score(context.Background(), job, candidate)

			Convey("Then it falls back to word overlap instead of failing", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 50.0) // {the, of} of {the, of, an, at}
			})
		})

		Convey("When both blobs are empty", func() {
			res, err := scorer.Score(context.Background(),
				model.JobProfile{ID: uuid.New()}, model.CandidateProfile{ID: uuid.New()})

			Convey("Then the fallback bottoms out at zero", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 0)
			})
		})

		Convey("When the candidate mirrors the job versus shares nothing", func() {
			job := dataJob()
			mirror, err := scorer.Score(context.Background(), job, dataCandidate())
			So(err, ShouldBeNil)
			disjoint, err := scorer.Score(context.Background(), job, unrelatedCandidate())
			So(err, ShouldBeNil)

			Convey("Then the mirror scores at least as high", func() {
				So(mirror.Score, ShouldBeGreaterThanOrEqualTo, disjoint.Score)
			})
		})
	})
}
