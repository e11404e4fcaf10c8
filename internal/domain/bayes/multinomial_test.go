package bayes_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/memoclass/internal/domain/bayes"
	"github.com/okian/memoclass/internal/domain/tfidf"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-12

func row(idx []int, vals []float64) tfidf.Vector {
	return tfidf.Vector{Indices: idx, Values: vals}
}

func TestMultinomial_Fit(t *testing.T) {
	Convey("Given two classes over two features", t, func() {
		x := []tfidf.Vector{
			row([]int{0}, []float64{1}),
			row([]int{1}, []float64{1}),
			row([]int{0}, []float64{1}),
		}
		y := []string{"informational", "actionable", "informational"}
		m := bayes.New()
		So(m.Fit(x, y, 2), ShouldBeNil)
		state, err := m.State()
		So(err, ShouldBeNil)

		Convey("Then classes are sorted", func() {
			So(m.Classes(), ShouldResemble, []string{"actionable", "informational"})
		})

		Convey("And priors are log class frequencies", func() {
			So(state.ClassLogPrior[0], ShouldAlmostEqual, math.Log(1.0/3.0), eps)
			So(state.ClassLogPrior[1], ShouldAlmostEqual, math.Log(2.0/3.0), eps)
		})

		Convey("And likelihoods use laplace smoothing", func() {
			So(state.Alpha, ShouldEqual, 1.0)
			So(state.FeatureLogProb[0][0], ShouldAlmostEqual, math.Log(1.0/3.0), eps)
			So(state.FeatureLogProb[0][1], ShouldAlmostEqual, math.Log(2.0/3.0), eps)
			So(state.FeatureLogProb[1][0], ShouldAlmostEqual, math.Log(3.0/4.0), eps)
			So(state.FeatureLogProb[1][1], ShouldAlmostEqual, math.Log(1.0/4.0), eps)
		})

		Convey("When predicting a row with feature one", func() {
			label, err := m.Predict(row([]int{1}, []float64{1}))
			So(err, ShouldBeNil)
			proba, err := m.PredictProba(row([]int{1}, []float64{1}))
			So(err, ShouldBeNil)

			Convey("Then the likelihood outweighs the prior", func() {
				So(label, ShouldEqual, "actionable")
				So(proba["actionable"], ShouldAlmostEqual, 4.0/7.0, 1e-9)
				So(proba["actionable"]+proba["informational"], ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When predicting an empty row", func() {
			label, err := m.Predict(tfidf.Vector{})

			Convey("Then the prior decides", func() {
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "informational")
			})
		})

		Convey("When predicting an out-of-range feature", func() {
			_, err := m.Predict(row([]int{5}, []float64{1}))

			Convey("Then a dimension error is returned", func() {
				So(errors.Is(err, bayes.ErrDimension), ShouldBeTrue)
			})
		})
	})

	Convey("Given equal priors and an empty row", t, func() {
		m := bayes.New()
		So(m.Fit([]tfidf.Vector{row([]int{0}, []float64{1}), row([]int{1}, []float64{1})}, []string{"zeta", "alpha"}, 2), ShouldBeNil)

		Convey("Then the tie goes to the first sorted class", func() {
			label, err := m.Predict(tfidf.Vector{})
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "alpha")
		})
	})

	Convey("Given a custom smoothing constant", t, func() {
		m := bayes.New(bayes.WithAlpha(0.5), bayes.WithAlpha(-1))
		So(m.Fit([]tfidf.Vector{row([]int{0}, []float64{1})}, []string{"only"}, 2), ShouldBeNil)
		state, _ := m.State()

		Convey("Then it is applied and invalid values are ignored", func() {
			So(state.Alpha, ShouldEqual, 0.5)
			So(state.FeatureLogProb[0][1], ShouldAlmostEqual, math.Log(0.5/2.0), eps)
		})
	})
}

func TestMultinomial_Errors(t *testing.T) {
	Convey("Given invalid training input", t, func() {
		m := bayes.New()

		Convey("Then mismatched lengths are rejected", func() {
			err := m.Fit([]tfidf.Vector{{}}, []string{"a", "b"}, 1)
			So(errors.Is(err, bayes.ErrLengthMismatch), ShouldBeTrue)
		})

		Convey("And empty input is rejected", func() {
			So(errors.Is(m.Fit(nil, nil, 1), bayes.ErrNoSamples), ShouldBeTrue)
		})

		Convey("And indices beyond the feature count are rejected", func() {
			err := m.Fit([]tfidf.Vector{row([]int{3}, []float64{1})}, []string{"a"}, 2)
			So(errors.Is(err, bayes.ErrDimension), ShouldBeTrue)
		})

		Convey("And prediction before fit fails", func() {
			_, err := m.Predict(tfidf.Vector{})
			So(errors.Is(err, bayes.ErrNotFitted), ShouldBeTrue)
		})
	})
}

func TestMultinomial_State(t *testing.T) {
	Convey("Given a fitted classifier", t, func() {
		m := bayes.New()
		So(m.Fit([]tfidf.Vector{row([]int{0}, []float64{0.6}), row([]int{1}, []float64{0.8})}, []string{"a", "b"}, 2), ShouldBeNil)
		state, err := m.State()
		So(err, ShouldBeNil)

		Convey("When restoring its state", func() {
			restored, err := bayes.FromState(state)
			So(err, ShouldBeNil)

			Convey("Then joint log likelihoods match exactly", func() {
				x := row([]int{0, 1}, []float64{0.3, 0.7})
				a, _ := m.PredictLogJoint(x)
				b, _ := restored.PredictLogJoint(x)
				So(b, ShouldResemble, a)
			})
		})

		Convey("When the state is truncated", func() {
			state.ClassLogPrior = state.ClassLogPrior[:1]
			_, err := bayes.FromState(state)

			Convey("Then restoring fails", func() {
				So(errors.Is(err, bayes.ErrInvalidState), ShouldBeTrue)
			})
		})

		Convey("When a log prior is not finite", func() {
			state.ClassLogPrior[0] = math.NaN()
			_, nanErr := bayes.FromState(state)
			state.ClassLogPrior[0] = math.Inf(1)
			_, infErr := bayes.FromState(state)

			Convey("Then restoring fails", func() {
				So(errors.Is(nanErr, bayes.ErrInvalidState), ShouldBeTrue)
				So(errors.Is(infErr, bayes.ErrInvalidState), ShouldBeTrue)
			})
		})

		Convey("When a feature log probability is not finite", func() {
			state.FeatureLogProb[1][0] = math.Inf(1)
			_, err := bayes.FromState(state)

			Convey("Then restoring fails", func() {
				So(errors.Is(err, bayes.ErrInvalidState), ShouldBeTrue)
			})
		})

		Convey("When the state is changed after restoring", func() {
			restored, err := bayes.FromState(state)
			So(err, ShouldBeNil)
			x := row([]int{0, 1}, []float64{0.3, 0.7})
			before, _ := restored.PredictLogJoint(x)
			state.ClassLogPrior[0] = -100
			state.FeatureLogProb[0][0] = -100
			after, _ := restored.PredictLogJoint(x)

			Convey("Then the restored classifier keeps its own copy", func() {
				So(after, ShouldResemble, before)
			})
		})

		Convey("When classes are out of order", func() {
			state.Classes = []string{"b", "a"}
			_, err := bayes.FromState(state)

			Convey("Then restoring fails", func() {
				So(errors.Is(err, bayes.ErrInvalidState), ShouldBeTrue)
			})
		})
	})
}
