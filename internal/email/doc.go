// Package email es el transporte de correo del job: una sesión SMTP por
// mensaje (dial → STARTTLS → AUTH → envío → cierre), sin pool ni reintentos.
//
// Cualquier falla se devuelve como *TransportError; quien llama decide si es
// fatal o si se registra y se sigue con el siguiente inquilino.
package email
