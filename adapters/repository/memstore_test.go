package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pathwise/matchengine/adapters/repository"
	"github.com/pathwise/matchengine/domain/model"
)

func result(jobID, candID uuid.UUID, score float64) model.MatchResult {
	return model.MatchResult{
		JobID:       jobID,
		CandidateID: candID,
		Score:       score,
		Method:      model.MethodSemantic,
	}
}

func TestMemoryStore_Profiles(t *testing.T) {
	Convey("Given a store with jobs and candidates", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		open := model.JobProfile{ID: uuid.New(), Title: "Backend Engineer", Status: model.JobOpen}
		closed := model.JobProfile{ID: uuid.New(), Title: "Old Role", Status: model.JobClosed}
		store.PutJob(ctx, open)
		store.PutJob(ctx, closed)

		employee := model.CandidateProfile{ID: uuid.New(), Role: model.RoleEmployee}
		manager := model.CandidateProfile{ID: uuid.New(), Role: model.RoleManager}
		hr := model.CandidateProfile{ID: uuid.New(), Role: model.RoleHR}
		optedOut := model.CandidateProfile{ID: uuid.New(), Role: model.RoleEmployee, OptedOut: true}
		store.PutCandidate(ctx, employee)
		store.PutCandidate(ctx, manager)
		store.PutCandidate(ctx, hr)
		store.PutCandidate(ctx, optedOut)

		Convey("GetJob returns stored jobs and a sentinel for unknown ids", func() {
			got, err := store.GetJob(ctx, open.ID)
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, "Backend Engineer")

			_, err = store.GetJob(ctx, uuid.New())
			So(err, ShouldWrap, repository.ErrJobNotFound)
		})

		Convey("GetCandidate returns a sentinel for unknown ids", func() {
			_, err := store.GetCandidate(ctx, uuid.New())
			So(err, ShouldWrap, repository.ErrCandidateNotFound)
		})

		Convey("ListOpenJobs returns only open jobs", func() {
			jobs, err := store.ListOpenJobs(ctx)
			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 1)
			So(jobs[0].ID, ShouldEqual, open.ID)
		})

		Convey("EligibleCandidates filters by role and drops opt-outs", func() {
			pool, err := store.EligibleCandidates(ctx, []model.Role{model.RoleEmployee, model.RoleManager})
			So(err, ShouldBeNil)
			So(pool, ShouldHaveLength, 2)
			So(pool[0].ID, ShouldEqual, employee.ID)
			So(pool[1].ID, ShouldEqual, manager.ID)
		})

		Convey("EligibleCandidates with no role filter still drops opt-outs", func() {
			pool, err := store.EligibleCandidates(ctx, nil)
			So(err, ShouldBeNil)
			So(pool, ShouldHaveLength, 3)
			for _, c := range pool {
				So(c.ID, ShouldNotEqual, optedOut.ID)
			}
		})
	})
}

func TestMemoryStore_ReplaceMatches(t *testing.T) {
	Convey("Given a store holding matches for a job", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		jobID := uuid.New()
		alice := uuid.New()
		bob := uuid.New()
		carol := uuid.New()

		So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
			result(jobID, alice, 80),
			result(jobID, bob, 60),
		}), ShouldBeNil)

		Convey("Matches come back sorted by score descending", func() {
			rows, err := store.MatchesForJob(ctx, jobID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].CandidateID, ShouldEqual, alice)
			So(rows[1].CandidateID, ShouldEqual, bob)
		})

		Convey("A replace swaps the whole result set", func() {
			So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
				result(jobID, carol, 90),
			}), ShouldBeNil)

			rows, err := store.MatchesForJob(ctx, jobID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].CandidateID, ShouldEqual, carol)
		})

		Convey("Replaying the same results leaves the set unchanged", func() {
			So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
				result(jobID, alice, 80),
				result(jobID, bob, 60),
			}), ShouldBeNil)

			rows, err := store.MatchesForJob(ctx, jobID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
		})

		Convey("When bob is shortlisted", func() {
			So(store.SetShortlisted(ctx, jobID, bob, true), ShouldBeNil)

			Convey("A recompute that still includes bob refreshes his score but keeps the flag", func() {
				So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
					result(jobID, bob, 72),
				}), ShouldBeNil)

				rows, err := store.MatchesForJob(ctx, jobID)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Score, ShouldEqual, 72)
				So(rows[0].Shortlisted, ShouldBeTrue)
			})

			Convey("A recompute that drops bob keeps his old row", func() {
				So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
					result(jobID, carol, 90),
				}), ShouldBeNil)

				rows, err := store.MatchesForJob(ctx, jobID)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].CandidateID, ShouldEqual, carol)
				So(rows[1].CandidateID, ShouldEqual, bob)
				So(rows[1].Score, ShouldEqual, 60)
				So(rows[1].Shortlisted, ShouldBeTrue)
			})

			Convey("Un-shortlisting makes the row replaceable again", func() {
				So(store.SetShortlisted(ctx, jobID, bob, false), ShouldBeNil)
				So(store.ReplaceMatches(ctx, jobID, nil), ShouldBeNil)

				rows, err := store.MatchesForJob(ctx, jobID)
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("SetShortlisted on an unknown pair reports a missing match", func() {
			err := store.SetShortlisted(ctx, jobID, uuid.New(), true)
			So(err, ShouldWrap, repository.ErrMatchNotFound)
		})

		Convey("Equal scores are ordered by candidate id for stable output", func() {
			So(store.ReplaceMatches(ctx, jobID, []model.MatchResult{
				result(jobID, bob, 50),
				result(jobID, alice, 50),
				result(jobID, carol, 50),
			}), ShouldBeNil)

			rows, err := store.MatchesForJob(ctx, jobID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			for i := 1; i < len(rows); i++ {
				So(rows[i-1].CandidateID.String(), ShouldBeLessThan, rows[i].CandidateID.String())
			}
		})
	})
}

func TestMemoryStore_MatchesForCandidate(t *testing.T) {
	Convey("Given matches for one candidate across two jobs", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		jobA := uuid.New()
		jobB := uuid.New()
		cand := uuid.New()

		So(store.ReplaceMatches(ctx, jobA, []model.MatchResult{result(jobA, cand, 40)}), ShouldBeNil)
		So(store.ReplaceMatches(ctx, jobB, []model.MatchResult{result(jobB, cand, 85)}), ShouldBeNil)

		Convey("MatchesForCandidate collects them sorted by score", func() {
			rows, err := store.MatchesForCandidate(ctx, cand)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].JobID, ShouldEqual, jobB)
			So(rows[1].JobID, ShouldEqual, jobA)
		})

		Convey("An unknown candidate yields an empty list", func() {
			rows, err := store.MatchesForCandidate(ctx, uuid.New())
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
