package skills_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pathwise/matchengine/domain/skills"
)

func TestNormalizeSet(t *testing.T) {
	Convey("Given a skill list with mixed case and duplicates", t, func() {
		in := []string{" Python ", "python", "FastAPI", "AWS", "aws", ""}

		Convey("When normalizing", func() {
			out := skills.NormalizeSet(in)

			Convey("Then duplicates and blanks are dropped, order preserved", func() {
				So(out, ShouldResemble, []string{"python", "fastapi", "aws"})
			})
		})
	})
}

func TestCleanText(t *testing.T) {
	Convey("Given text with noise characters and ragged whitespace", t, func() {
		in := "  Senior C# / C++  Engineer!!  (Node.js, K8s)  "

		Convey("When cleaning", func() {
			out := skills.CleanText(in)

			Convey("Then word characters, hyphen, plus, hash, slash and dot survive", func() {
				So(out, ShouldEqual, "senior c# / c++ engineer node.js k8s")
			})
		})
	})

	Convey("Given empty input", t, func() {
		So(skills.CleanText("   "), ShouldEqual, "")
		So(skills.Tokens(""), ShouldBeNil)
	})
}

func TestSimilarity(t *testing.T) {
	Convey("Given the pairwise similarity tiers", t, func() {
		Convey("Synonym-table pairs score 0.8", func() {
			So(skills.Similarity("aws", "lambda"), ShouldEqual, 0.8)
			So(skills.Similarity("lambda", "aws"), ShouldEqual, 0.8)
			So(skills.Similarity("javascript", "react"), ShouldEqual, 0.8)
		})

		Convey("Substring containment scores 0.6", func() {
			So(skills.Similarity("java", "javascript"), ShouldEqual, 0.6)
			So(skills.Similarity("postgresql 14", "postgresql"), ShouldEqual, 0.6)
		})

		Convey("Plain word overlap scales Jaccard by 0.4", func() {
			// {apache, spark} vs {apache, flink}: one of three distinct words.
			So(skills.Similarity("apache spark", "apache flink"), ShouldAlmostEqual, 0.4/3, 1e-9)
		})

		Convey("Unrelated skills score zero", func() {
			So(skills.Similarity("python", "carpentry"), ShouldEqual, 0)
		})

		Convey("Empty input scores zero", func() {
			So(skills.Similarity("", "python"), ShouldEqual, 0)
		})
	})
}

func TestBestSimilarity(t *testing.T) {
	Convey("Given a candidate skill pool", t, func() {
		pool := []string{"java", "react", "terraform"}

		Convey("Then the best pairwise similarity wins", func() {
			So(skills.BestSimilarity("javascript", pool), ShouldEqual, 0.8)
		})

		Convey("And an empty pool scores zero", func() {
			So(skills.BestSimilarity("javascript", nil), ShouldEqual, 0)
		})
	})
}

func TestJaccard(t *testing.T) {
	Convey("Given token slices", t, func() {
		Convey("Identical sets score 1", func() {
			So(skills.Jaccard([]string{"a", "b"}, []string{"b", "a"}), ShouldEqual, 1)
		})

		Convey("Disjoint sets score 0", func() {
			So(skills.Jaccard([]string{"a"}, []string{"b"}), ShouldEqual, 0)
		})

		Convey("Duplicates do not inflate the score", func() {
			So(skills.Jaccard([]string{"a", "a", "b"}, []string{"a"}), ShouldEqual, 0.5)
		})

		Convey("Empty input scores 0", func() {
			So(skills.Jaccard(nil, []string{"a"}), ShouldEqual, 0)
		})
	})
}
