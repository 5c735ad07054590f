/*
Package openapi_models turns an OpenAPI document into runtime data-access types.

Every resource of the document that declares a list route (GET /<resource>) and a
singular route (GET /<resource>/{id_}) becomes a core.ResourceType with a table of
generated functions: CRUD, find_by_<attribute> finders, relationship helpers and
downstream wrappers for the routes nested below an instance. Every other route becomes
a standalone core.Function named after its verb and path.

Lists are returned as a core.Cursor, which fetches one page eagerly and follows the
server-provided next links only when the caller asks for more items.

The entry points are Generate and the Initialize* helpers, which load the document
from memory, a file or a URL. All generated code shares one core.Config, so a
refreshed token or a changed validation policy is picked up by subsequent calls.
*/
package openapi_models
