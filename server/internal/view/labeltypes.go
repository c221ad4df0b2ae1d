package view

// labelTypes is the fixed label-kind registry, in display order.
var labelTypes = []LabelType{
	{LabelKey: "BOX2D", LabelType: "2D BOX"},
	{LabelKey: "CLASSIFICATION", LabelType: "CLASSIFICATION"},
	{LabelKey: "POLYGON2D", LabelType: "2D POLYGON"},
	{LabelKey: "POLYLINE2D", LabelType: "2D POLYLINE"},
	{LabelKey: "CUBOID2D", LabelType: "2D CUBOID"},
	{LabelKey: "BOX3D", LabelType: "3D BOX"},
	{LabelKey: "KEYPOINTS2D", LabelType: "KEYPOINTS"},
	{LabelKey: "SENTENCE", LabelType: "Audio Sentence"},
}

// LabelTypes returns the label-kind registry. It does not depend on the
// dataset and is available before one is loaded.
func LabelTypes() *LabelTypeList {
	out := make([]LabelType, len(labelTypes))
	copy(out, labelTypes)
	return &LabelTypeList{LabelTypes: out}
}
