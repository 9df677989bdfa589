// Copyright (c) 2017 OysterPack, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgq

// Envelope is the JSON response envelope shared by all request handlers :
// {status, message, data}. Status carries the logical outcome - the HTTP
// transport always responds 200 and clients inspect the envelope.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Ok wraps data in a 200 envelope
func Ok(data interface{}) *Envelope {
	return &Envelope{Status: 200, Message: "ok", Data: data}
}

// BadRequest reports a malformed request - 400
func BadRequest(reason string) *Envelope {
	return &Envelope{Status: 400, Message: "Bad Request", Data: reason}
}

// Unauthorized reports a security token mismatch - 401
func Unauthorized(reason string) *Envelope {
	return &Envelope{Status: 401, Message: "Unauthorized", Data: reason}
}

// NotFound reports a missing resource - 404
func NotFound(reason string) *Envelope {
	return &Envelope{Status: 404, Message: "Not Found", Data: reason}
}

// NotAcceptable reports an unknown destination reference - 406.
// The destination reference itself is invalid, as opposed to a missing resource within it.
func NotAcceptable(reason string) *Envelope {
	return &Envelope{Status: 406, Message: "Not Acceptable", Data: reason}
}

// InternalServerError reports a collaborator failure - 500
func InternalServerError(reason string) *Envelope {
	return &Envelope{Status: 500, Message: "Internal Server Error", Data: reason}
}
