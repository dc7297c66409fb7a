// Package endpoint converts the results of typed request-matching endpoints
// into HTTP responses. An endpoint's value is kept apart from how it is put
// on the wire: the value lives in an Output, together with the status,
// headers, cookies and content type overrides that shape the response.
//
// An Endpoint evaluates an Input and, on a match, returns the unconsumed
// remainder and a deferred Output:
//
//	hello := endpoint.EndpointFunc[string](func(in endpoint.Input) (endpoint.Match[string], bool) {
//	    if seg, ok := in.Head(); !ok || seg != "hello" {
//	        return endpoint.Match[string]{}, false
//	    }
//	    return endpoint.Match[string]{
//	        Remainder: in.Drop(1),
//	        Output: func(context.Context) (endpoint.Output[string], error) {
//	            return endpoint.Ok("hello"), nil
//	        },
//	    }, true
//	})
//
// Encoders are resolved once, when the Service is built, from a Registry:
//
//	reg := endpoint.NewRegistry(endpoint.WithFallback(endpoint.JSON()))
//	svc, err := endpoint.Build(hello, reg)
//
// A Service built this way never fails at request time for lack of an
// encoder; Build reports ErrNoEncoder instead.
//
// A result may be one of several unrelated types. Or2 and Or3 model such
// closed alternative sets; each alternative is resolved on its own, and a
// *Response alternative is passed through unchanged:
//
//	svc, err := endpoint.Build[endpoint.Or2[*endpoint.Response, User]](e, reg)
//
// The status always comes from the Output, so a redirect is returned as
//
//	endpoint.Ok(endpoint.Or2A[*endpoint.Response, User](endpoint.Redirect("/login", http.StatusSeeOther))).
//	    WithStatus(http.StatusSeeOther)
//
// Error outputs always carry an ErrorMap and are encoded by the Service's
// error encoder (JSONErrors unless WithErrorEncoder says otherwise;
// ProblemErrors renders RFC 9457 problem details).
//
// Requests that do not match, or match without consuming the whole path,
// get an empty 404 and the deferred Output is never computed.
package endpoint
