package locale

import "veo-prompt-studio/internal/domain/entity"

// StyleOption 视觉风格选项；Value 原样拼入结构化提示词
type StyleOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type styleEntry struct {
	value   string
	labelVI string
}

var styleCatalog = []styleEntry{
	{"3D Animation (Pixar Style)", "Hoạt hình 3D (Phong cách Pixar)"},
	{"Japanese Anime (Ghibli Style)", "Anime Nhật Bản (Phong cách Ghibli)"},
	{"Classic Black and White Film", "Phim đen trắng cổ điển"},
	{"Cyberpunk Sci-Fi", "Phim khoa học viễn tưởng Cyberpunk"},
	{"Realistic Documentary", "Phim tài liệu thực tế"},
	{"Photorealistic", "Quang học (Photorealistic)"},
	{"Cinematic Realism", "Hiện thực Điện ảnh (Cinematic Realism)"},
	{"Stop-motion Claymation", "Hoạt hình đất sét (Stop-motion)"},
	{"High Fantasy (Lord of the Rings style)", "Fantasy (Chúa tể những chiếc nhẫn)"},
	{"Film Noir (Crime, mystery)", "Phim Noir (Tội phạm, bí ẩn)"},
	{"Vaporwave Aesthetic Video", "Video theo phong cách Vaporwave"},
	{"Watercolor Painting", "Tranh màu nước"},
	{"8-bit Pixel Art", "Nghệ thuật Pixel 8-bit"},
	{"Steampunk", "Steampunk (Cơ khí hơi nước)"},
	{"Vintage Comic Book Style", "Truyện tranh cổ điển"},
	{"Surrealism (Dali-esque)", "Chủ nghĩa siêu thực (Phong cách Dali)"},
	{"Gothic Horror (Tim Burton style)", "Kinh dị Gothic (Phong cách Tim Burton)"},
	{"Lo-fi / Chillhop Aesthetic", "Thẩm mỹ Lo-fi / Chillhop"},
	{"Nature Documentary (BBC Planet Earth style)", "Phim tài liệu thiên nhiên (Phong cách BBC)"},
	{"Wes Anderson Style (Symmetrical, Quirky)", "Phong cách Wes Anderson (Đối xứng, độc đáo)"},
	{"Psychedelic / Trippy Visuals", "Hình ảnh ảo giác / Psychedelic"},
	{"Hand-drawn Sketch Animation", "Hoạt hình phác thảo bằng tay"},
	{"Cinematic Drone Footage", "Cảnh quay điện ảnh bằng Drone"},
}

// Styles 返回指定语言下的风格列表（不含"未选择"项）
func Styles(lang entity.Language) []StyleOption {
	out := make([]StyleOption, 0, len(styleCatalog))
	for _, s := range styleCatalog {
		label := s.value
		if lang == entity.LanguageVietnamese {
			label = s.labelVI
		}
		out = append(out, StyleOption{Value: s.value, Label: label})
	}
	return out
}

// IsKnownStyle 是否为目录中的风格；自定义风格同样允许使用
func IsKnownStyle(value string) bool {
	for _, s := range styleCatalog {
		if s.value == value {
			return true
		}
	}
	return false
}
