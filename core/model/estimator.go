package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// UncertaintyPredictor は予測の不確かさを返せるモデルのインターフェース
type UncertaintyPredictor interface {
	Predictor
	// PredictWithStd は予測平均と予測標準偏差を返す
	PredictWithStd(X mat.Matrix) (mean, std mat.Matrix, err error)
}
