package scoring

// EditKey 待保存修改的键：评分项 × 供应商
type EditKey struct {
	CriterionID string
	VendorID    string
}

// PendingEdit 一条待保存的评分修改
type PendingEdit struct {
	CriterionID string  `json:"criterion_id"`
	VendorID    string  `json:"vendor_id"`
	Score       float64 `json:"score"`
}

// Draft 评分修改缓冲：暂存未提交的修改，整批落库或整体丢弃。
// 同一键的后写覆盖先写，落库顺序保持首次写入顺序。
type Draft struct {
	pending map[EditKey]float64
	order   []EditKey
}

// NewDraft 创建空缓冲
func NewDraft() *Draft {
	return &Draft{pending: map[EditKey]float64{}}
}

// Stage 暂存一条修改
func (d *Draft) Stage(criterionID, vendorID string, score float64) {
	key := EditKey{CriterionID: criterionID, VendorID: vendorID}
	if _, ok := d.pending[key]; !ok {
		d.order = append(d.order, key)
	}
	d.pending[key] = score
}

// Len 当前暂存条数
func (d *Draft) Len() int {
	return len(d.pending)
}

// Snapshot 按首次写入顺序导出全部暂存修改
func (d *Draft) Snapshot() []PendingEdit {
	out := make([]PendingEdit, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, PendingEdit{
			CriterionID: key.CriterionID,
			VendorID:    key.VendorID,
			Score:       d.pending[key],
		})
	}
	return out
}

// Discard 丢弃全部暂存修改
func (d *Draft) Discard() {
	d.pending = map[EditKey]float64{}
	d.order = nil
}
