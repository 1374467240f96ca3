package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Weights 三个维度的权重，整数百分比，总和应为100
type Weights struct {
	Cost         int `json:"cost"`
	VendorRating int `json:"vendor_rating"`
	Capability   int `json:"capability"`
}

// DefaultWeights 默认权重：成本70 / 供应商评级20 / 能力10
func DefaultWeights() Weights {
	return Weights{Cost: 70, VendorRating: 20, Capability: 10}
}

// Sum 权重总和
func (w Weights) Sum() int {
	return w.Cost + w.VendorRating + w.Capability
}

// Of 取指定维度的权重
func (w Weights) Of(cat Category) int {
	switch cat {
	case CategoryCost:
		return w.Cost
	case CategoryVendorRating:
		return w.VendorRating
	case CategoryCapability:
		return w.Capability
	}
	return 0
}

// Validate 校验各权重取值范围与总和
func (w Weights) Validate() error {
	for _, cat := range Categories {
		v := w.Of(cat)
		if v < 0 || v > 100 {
			return fmt.Errorf("weight %s out of range: %d", cat, v)
		}
	}
	if w.Sum() != 100 {
		return fmt.Errorf("weights sum to %d, want 100", w.Sum())
	}
	return nil
}

// Normalize 转换为 0~1 的小数权重
func (w Weights) Normalize() map[Category]float64 {
	return map[Category]float64{
		CategoryCost:         float64(w.Cost) / 100,
		CategoryVendorRating: float64(w.VendorRating) / 100,
		CategoryCapability:   float64(w.Capability) / 100,
	}
}

// Rescale 修改单个维度的权重，其余两项按原比例重新分配，
// 保证总和恰好为100。取整后的尾差记入未修改维度中顺序靠前的一项。
// 其余两项原先都为0时平均分配，尾差同样给顺序靠前的一项。
func (w Weights) Rescale(target Category, value int) (Weights, error) {
	if value < 0 || value > 100 {
		return Weights{}, fmt.Errorf("weight %s out of range: %d", target, value)
	}
	if w.Of(target) == value {
		return w, nil
	}

	remaining := 100 - value
	var others []Category
	for _, cat := range Categories {
		if cat != target {
			others = append(others, cat)
		}
	}
	if len(others) != 2 {
		return Weights{}, errors.New("unknown weight category: " + string(target))
	}

	otherTotal := w.Of(others[0]) + w.Of(others[1])

	out := map[Category]int{target: value}
	if otherTotal == 0 {
		half := remaining / 2
		out[others[0]] = half + remaining%2
		out[others[1]] = half
	} else {
		for _, cat := range others {
			scaled := float64(w.Of(cat)) * float64(remaining) / float64(otherTotal)
			out[cat] = int(math.Round(scaled))
		}
		// 修正取整尾差，落在第一个未修改的维度上
		out[others[0]] += remaining - out[others[0]] - out[others[1]]
	}

	return Weights{
		Cost:         out[CategoryCost],
		VendorRating: out[CategoryVendorRating],
		Capability:   out[CategoryCapability],
	}, nil
}
