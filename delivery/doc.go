// Package delivery hands staged one-time codes to account holders.
//
// [SMTPSender] mails the code through an SMTP relay. [ConsoleSender] writes
// it to a zerolog logger and is meant for local development only. Both
// satisfy insureAuth.CodeSender.
package delivery
