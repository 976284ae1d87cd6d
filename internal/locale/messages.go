// Package locale 提供越南语/英语双语文案表与风格目录
package locale

import "veo-prompt-studio/internal/domain/entity"

// MessageKey 文案键
type MessageKey string

const (
	MsgMissingCredential     MessageKey = "missing_credential"
	MsgCredentialNotSet      MessageKey = "credential_not_set"
	MsgMissingTopic          MessageKey = "missing_topic"
	MsgMissingOriginalScript MessageKey = "missing_original_script"
	MsgMissingScript         MessageKey = "missing_script"
	MsgScriptFailed          MessageKey = "script_failed"
	MsgPromptFailed          MessageKey = "prompt_failed"
	MsgPromptMalformed       MessageKey = "prompt_malformed"
	MsgCharactersFailed      MessageKey = "characters_failed"
	MsgCharactersMalformed   MessageKey = "characters_malformed"
	MsgExportFailed          MessageKey = "export_failed"
	MsgNotStructured         MessageKey = "not_structured"
	MsgSlotBusy              MessageKey = "slot_busy"
	MsgUnknown               MessageKey = "unknown"
	MsgSessionNotFound       MessageKey = "session_not_found"
	MsgStageLocked           MessageKey = "stage_locked"
)

type bilingual struct {
	vi string
	en string
}

var messages = map[MessageKey]bilingual{
	MsgMissingCredential: {
		vi: "Vui lòng cung cấp API Key.",
		en: "Please provide an API Key.",
	},
	MsgCredentialNotSet: {
		vi: "Vui lòng thiết lập API Key của bạn ở đầu trang này trước.",
		en: "Please set your API Key at the top of this page first.",
	},
	MsgMissingTopic: {
		vi: "Vui lòng nhập chủ đề cho kịch bản.",
		en: "Please enter a topic for the script.",
	},
	MsgMissingOriginalScript: {
		vi: "Vui lòng nhập hoặc dán kịch bản gốc của bạn vào ô văn bản.",
		en: "Please enter or paste your original script into the text box.",
	},
	MsgMissingScript: {
		vi: "Vui lòng tạo hoặc cung cấp kịch bản trước.",
		en: "Please generate or provide a script first.",
	},
	MsgScriptFailed: {
		vi: "Không thể tạo kịch bản. Vui lòng kiểm tra API key của bạn và thử lại.",
		en: "Could not generate the script. Please check your API key and try again.",
	},
	MsgPromptFailed: {
		vi: "Không thể tạo prompt JSON. Kịch bản có thể bị lỗi hoặc API đã gặp sự cố.",
		en: "Could not generate the JSON prompt. The script may be malformed or the API failed.",
	},
	MsgPromptMalformed: {
		vi: "Phản hồi của API không phải là prompt JSON hợp lệ. Vui lòng thử lại.",
		en: "The API response was not a valid JSON prompt. Please try again.",
	},
	MsgCharactersFailed: {
		vi: "Không thể tạo danh sách nhân vật. Vui lòng kiểm tra API key của bạn và thử lại.",
		en: "Could not generate the character list. Please check your API key and try again.",
	},
	MsgCharactersMalformed: {
		vi: "Phản hồi của API không phải là danh sách nhân vật hợp lệ. Vui lòng thử lại.",
		en: "The API response was not a valid character list. Please try again.",
	},
	MsgExportFailed: {
		vi: "Không thể tải xuống: nội dung hiện tại không phải là JSON hợp lệ.",
		en: "Cannot download: the current content is not valid JSON.",
	},
	MsgNotStructured: {
		vi: "Nội dung hiện tại không phải là JSON hợp lệ, không thể chuyển sang chế độ xem cấu trúc.",
		en: "The current content is not valid JSON and cannot be shown in structured view.",
	},
	MsgSlotBusy: {
		vi: "Yêu cầu trước đó vẫn đang được xử lý.",
		en: "A previous request for this output is still in progress.",
	},
	MsgUnknown: {
		vi: "Đã xảy ra lỗi không xác định.",
		en: "An unknown error occurred.",
	},
	MsgSessionNotFound: {
		vi: "Không tìm thấy phiên làm việc.",
		en: "Session not found.",
	},
	MsgStageLocked: {
		vi: "Vui lòng tạo hoặc cung cấp kịch bản trước.",
		en: "Please generate or provide a script first.",
	},
}

// Message 按语言取文案，缺失键回退为未知错误文案
func Message(lang entity.Language, key MessageKey) string {
	m, ok := messages[key]
	if !ok {
		m = messages[MsgUnknown]
	}
	if lang == entity.LanguageEnglish {
		return m.en
	}
	return m.vi
}
