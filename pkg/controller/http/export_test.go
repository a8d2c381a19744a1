package http

// VerifyWhatsAppSignature is exported for testing
var VerifyWhatsAppSignature = verifyWhatsAppSignature
