package repl

// Introduction is printed when a session starts.
const Introduction = `Welcome to the interactive websocket session!\
For more information about commands, type the **help** command.\
When you see **\<\>** around a word, it means this argument is optional.\
To know more about a particular command type **help** \<command>.\
To close the session, you can type **Ctrl+D** or the **quit** command.
`

// Farewell is printed when a session ends normally.
const Farewell = "Bye!"

const generalHelp = `The session program lets you interact with a websocket endpoint with the following commands:

- **ping** \<message>: Sends a ping with an optional message.
- **pong** \<message>: Sends a pong with an optional message.
- **text** message: Sends text message.
- **byte** message: Sends byte message.
- **close** \<code> \<reason>: Closes the websocket connection with an optional code and message.
- **quit**: equivalent to **close 1000**.
`

const pingHelp = "The ping command sends a PING control frame with an optional message.\n\n" +
	"Example usage:\n\n" +
	"A random 32 bytes of data will be sent to the server as ping payload.\n" +
	"```shell\n> ping\n```\n\n" +
	"Sends a ping with the message \"hello world\". The message length **must not** be greater than `125` bytes.\n" +
	"```shell\n> ping \"hello world\"\n```\n"

const pongHelp = "The pong command sends a PONG control frame with an optional message.\n\n" +
	"Example usage:\n\n" +
	"An empty pong will be sent on the wire.\n" +
	"```shell\n> pong\n```\n\n" +
	"Sends a pong with the message \"hello world\". The message length **must not** be greater than `125` bytes.\n" +
	"```shell\n> pong \"hello world\"\n```\n"

const closeHelp = "Closes the session given a code and an optional reason.\n\n" +
	"Example usage:\n\n" +
	"If no code is given, 1000 is considered as default meaning a normal closure. " +
	"Thus, it is equivalent to the **quit** command.\n" +
	"```shell\n> close\n```\n\n" +
	"Closes the connection with a code 1001 and no message.\n" +
	"```shell\n> close 1001\n```\n\n" +
	"Closes the connection with a code 1003 and a message \"received unknown data\".\n\n" +
	"The message length **must not** be greater than `123` bytes.\n" +
	"```shell\n> close 1003 'received unknown data'\n```\n\n" +
	"To know more about close codes, please refer to the " +
	"[RFC](https://datatracker.ietf.org/doc/html/rfc6455#section-7.4.1).\n"

const quitHelp = "Exits the session program.\n\n" +
	"Technically it is the equivalent of the following command:\n\n" +
	"```shell\n> close 1000\n```\n"

const textHelp = "Sends a TEXT frame with given data.\n\n" +
	"Example usage:\n\n" +
	"Sends \"hello world\" in a TEXT frame.\n" +
	"```shell\n> text 'hello world'\n```\n\n" +
	"Sends the content of *foo.txt* as a TEXT frame.\n" +
	"```txt\n# foo.txt\nHello from Cameroon!\n```\n\n" +
	"Notice the pattern **file@** which is a necessary prefix to send content from a file.\n" +
	"```shell\n> text file@foo.txt\n```\n"

const byteHelp = "Sends a BINARY frame with given data.\n\n" +
	"Example usage:\n\n" +
	"Sends \"hello world\" in a BINARY frame.\n" +
	"```shell\n> byte 'hello world'\n```\n\n" +
	"Sends the content of *foo.txt* as a BINARY frame.\n" +
	"```txt\n# foo.txt\nHello from Cameroon!\n```\n\n" +
	"Notice the pattern **file@** which is a necessary prefix to send content from a file.\n" +
	"```shell\n> byte file@foo.txt\n```\n"

// helpDocs holds the documentation of every kind; help itself maps to
// the general help.
var helpDocs = map[Kind]string{
	KindQuit:  quitHelp,
	KindClose: closeHelp,
	KindPing:  pingHelp,
	KindPong:  pongHelp,
	KindText:  textHelp,
	KindByte:  byteHelp,
	KindHelp:  generalHelp,
}

// HelpFor returns the markdown documentation of k.
func HelpFor(k Kind) (string, bool) {
	doc, ok := helpDocs[k]
	return doc, ok
}
