package entity

// CredentialKey 凭据在持久化存储中的键
const CredentialKey = "gemini-api-key"
