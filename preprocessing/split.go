package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigp/pkg/errors"
)

// TrainTestSplit はデータセットを先頭から順に訓練用・テスト用に分割する
//
// シャッフルは行わず、先頭の floor(trainRatio * n) 行を訓練データ、
// 残りをテストデータとする。分割は連続・順序保存・非重複であり、
// 同じ入力に対して常に同じ結果を返す。
//
// パラメータ:
//   - X: 特徴量行列 (n_samples × n_features)
//   - y: 目的変数 (n_samples × 1)
//   - trainRatio: 訓練データの割合 (0 < trainRatio < 1)
//
// 戻り値:
//   - XTrain, XTest, yTrain, yTest: 分割されたデータ（コピー）
func TrainTestSplit(X, y mat.Matrix, trainRatio float64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if trainRatio <= 0 || trainRatio >= 1 {
		return nil, nil, nil, nil,
			errors.NewValidationError("trainRatio", "must be in (0, 1)", trainRatio)
	}

	n, c := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 || c == 0 {
		return nil, nil, nil, nil,
			errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return nil, nil, nil, nil,
			errors.NewDimensionError("TrainTestSplit", n, yRows, 0)
	}
	if yCols != 1 {
		return nil, nil, nil, nil,
			errors.NewValueError("TrainTestSplit", "y must be a column vector")
	}

	trainSize := int(trainRatio * float64(n))
	if trainSize == 0 || trainSize == n {
		return nil, nil, nil, nil,
			errors.NewValidationError("trainRatio", "split leaves an empty partition", trainRatio)
	}

	XTrain = mat.NewDense(trainSize, c, nil)
	XTest = mat.NewDense(n-trainSize, c, nil)
	yTrain = mat.NewDense(trainSize, 1, nil)
	yTest = mat.NewDense(n-trainSize, 1, nil)

	for i := 0; i < n; i++ {
		if i < trainSize {
			for j := 0; j < c; j++ {
				XTrain.Set(i, j, X.At(i, j))
			}
			yTrain.Set(i, 0, y.At(i, 0))
		} else {
			for j := 0; j < c; j++ {
				XTest.Set(i-trainSize, j, X.At(i, j))
			}
			yTest.Set(i-trainSize, 0, y.At(i, 0))
		}
	}

	return XTrain, XTest, yTrain, yTest, nil
}
